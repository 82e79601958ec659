package onto

import "github.com/mesh-intelligence/annopack/pkg/ontology"

// Dependency is a syntactic arc from a head token to a dependent token.
type Dependency struct {
	ontology.BaseLink[*Token, *Token]
	RelType string
}

func (d *Dependency) Kind() string { return KindDependency }

func (d *Dependency) Fields() []ontology.Field {
	return []ontology.Field{ontology.Var("rel_type", &d.RelType)}
}

// NewDependency constructs a Dependency against c. head and dependent may be
// nil and set later.
func NewDependency(c ontology.Container, head, dependent ontology.Entry) (*Dependency, error) {
	d := &Dependency{}
	if err := d.Init(d, c); err != nil {
		return nil, err
	}
	if err := d.Connect(head, dependent); err != nil {
		return nil, err
	}
	return d, nil
}

// RelationLink relates two entity mentions.
type RelationLink struct {
	ontology.BaseLink[*EntityMention, *EntityMention]
	RelType string
}

func (r *RelationLink) Kind() string { return KindRelationLink }

func (r *RelationLink) Fields() []ontology.Field {
	return []ontology.Field{ontology.Var("rel_type", &r.RelType)}
}

// NewRelationLink constructs a RelationLink against c. parent and child may
// be nil and set later.
func NewRelationLink(c ontology.Container, parent, child ontology.Entry) (*RelationLink, error) {
	r := &RelationLink{}
	if err := r.Init(r, c); err != nil {
		return nil, err
	}
	if err := r.Connect(parent, child); err != nil {
		return nil, err
	}
	return r, nil
}

// CoreferenceGroup collects entity mentions referring to the same entity.
type CoreferenceGroup struct {
	ontology.BaseGroup[*EntityMention]
}

func (g *CoreferenceGroup) Kind() string { return KindCoreferenceGroup }

// NewCoreferenceGroup constructs a group against c holding members.
func NewCoreferenceGroup(c ontology.Container, members ...ontology.Entry) (*CoreferenceGroup, error) {
	g := &CoreferenceGroup{}
	if err := g.Init(g, c); err != nil {
		return nil, err
	}
	if err := g.AddMembers(members...); err != nil {
		return nil, err
	}
	return g, nil
}
