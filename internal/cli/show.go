package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// packView is the --json form of show.
type packView struct {
	pack.Meta
	Entries []pack.Record `json:"entries"`
}

func newShowCmd(a *app) *cobra.Command {
	var kinds []string
	cmd := &cobra.Command{
		Use:   "show <pack-id>",
		Short: "Display a pack and its entries",
		Long: `Show prints the pack text and one row per entry: spans with the text
they cover, links with their endpoints and groups with their members.

Example:
  annopack show 0192f0c1-...
  annopack show 0192f0c1-... --kind onto.Token --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			p, err := store.LoadPack(args[0])
			if err != nil {
				return storeError("show", err)
			}
			records, err := p.Records()
			if err != nil {
				return sysError("show: %w", err)
			}
			if len(kinds) > 0 {
				records = slices.DeleteFunc(records, func(r pack.Record) bool {
					return !slices.Contains(kinds, r.Kind)
				})
			}

			view := packView{Meta: p.Meta(), Entries: records}
			return a.output(cmd.OutOrStdout(), view, func(w io.Writer) {
				fmt.Fprintf(w, "Pack:    %s\n", view.ID)
				fmt.Fprintf(w, "Name:    %s\n", view.Name)
				fmt.Fprintf(w, "Text:    %s\n", truncate(view.Text, 72))
				fmt.Fprintf(w, "Entries: %d\n\n", len(records))
				if len(records) == 0 {
					return
				}
				rows := make([][]string, len(records))
				for i, rec := range records {
					rows[i] = []string{rec.TID, rec.Component, describe(view.Text, rec), formatFields(rec.Fields)}
				}
				writeTable(w, []string{"TID", "COMPONENT", "VALUE", "FIELDS"}, rows)
			})
		},
	}
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only show entries of these kinds")
	return cmd
}

// describe summarizes what an entry covers or connects.
func describe(text string, rec pack.Record) string {
	switch {
	case rec.Span != nil:
		s := *rec.Span
		covered := ""
		if s.Begin >= 0 && s.End <= len(text) && s.Begin <= s.End {
			covered = text[s.Begin:s.End]
		}
		return fmt.Sprintf("%s %q", s, truncate(covered, 40))
	case rec.Parent != "" || rec.Child != "":
		return orUnset(rec.Parent) + " -> " + orUnset(rec.Child)
	case len(rec.Members) > 0:
		return "{" + strings.Join(rec.Members, ", ") + "}"
	default:
		return ""
	}
}

func orUnset(tid string) string {
	if tid == "" {
		return "<unset>"
	}
	return tid
}

// formatFields renders non-zero fields as name=value pairs, sorted by name.
func formatFields(fields map[string]json.RawMessage) string {
	names := make([]string, 0, len(fields))
	for name, raw := range fields {
		switch string(raw) {
		case `""`, "0", "false", "null":
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, len(names))
	for i, name := range names {
		value := string(fields[name])
		var s string
		if err := json.Unmarshal(fields[name], &s); err == nil {
			value = s
		}
		parts[i] = name + "=" + value
	}
	return strings.Join(parts, " ")
}
