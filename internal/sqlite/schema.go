package sqlite

// Schema DDL for all tables.
const (
	createPacks = `CREATE TABLE IF NOT EXISTS packs (
    pack_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    text TEXT NOT NULL,
    saved_at TEXT NOT NULL
);`

	createEntries = `CREATE TABLE IF NOT EXISTS entries (
    pack_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    tid TEXT NOT NULL,
    kind TEXT NOT NULL,
    component TEXT NOT NULL,
    span_begin INTEGER,
    span_end INTEGER,
    fields TEXT,
    parent_tid TEXT,
    child_tid TEXT,
    PRIMARY KEY (pack_id, tid),
    FOREIGN KEY (pack_id) REFERENCES packs(pack_id) ON DELETE CASCADE
);`

	createGroupMembers = `CREATE TABLE IF NOT EXISTS group_members (
    pack_id TEXT NOT NULL,
    group_tid TEXT NOT NULL,
    member_tid TEXT NOT NULL,
    PRIMARY KEY (pack_id, group_tid, member_tid),
    FOREIGN KEY (pack_id, group_tid) REFERENCES entries(pack_id, tid) ON DELETE CASCADE
);`
)

// Index DDL for common queries.
const (
	idxEntriesSeq       = `CREATE INDEX IF NOT EXISTS idx_entries_seq ON entries(pack_id, seq);`
	idxEntriesKind      = `CREATE INDEX IF NOT EXISTS idx_entries_kind ON entries(pack_id, kind);`
	idxGroupMembersPack = `CREATE INDEX IF NOT EXISTS idx_group_members_pack ON group_members(pack_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createPacks,
	createEntries,
	createGroupMembers,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntriesSeq,
	idxEntriesKind,
	idxGroupMembersPack,
}
