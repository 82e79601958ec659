package onto

import (
	"github.com/mesh-intelligence/annopack/pkg/ontology"
	"github.com/mesh-intelligence/annopack/pkg/pack"
)

// Kind names.
const (
	KindDocument         = "onto.Document"
	KindSentence         = "onto.Sentence"
	KindToken            = "onto.Token"
	KindEntityMention    = "onto.EntityMention"
	KindDependency       = "onto.Dependency"
	KindRelationLink     = "onto.RelationLink"
	KindCoreferenceGroup = "onto.CoreferenceGroup"
)

func init() {
	pack.RegisterKind(KindDocument, func(p *pack.Pack, s ontology.Span) (ontology.Entry, error) {
		return NewDocument(p, s.Begin, s.End)
	})
	pack.RegisterKind(KindSentence, func(p *pack.Pack, s ontology.Span) (ontology.Entry, error) {
		return NewSentence(p, s.Begin, s.End)
	})
	pack.RegisterKind(KindToken, func(p *pack.Pack, s ontology.Span) (ontology.Entry, error) {
		return NewToken(p, s.Begin, s.End)
	})
	pack.RegisterKind(KindEntityMention, func(p *pack.Pack, s ontology.Span) (ontology.Entry, error) {
		return NewEntityMention(p, s.Begin, s.End)
	})
	pack.RegisterKind(KindDependency, func(p *pack.Pack, _ ontology.Span) (ontology.Entry, error) {
		return NewDependency(p, nil, nil)
	})
	pack.RegisterKind(KindRelationLink, func(p *pack.Pack, _ ontology.Span) (ontology.Entry, error) {
		return NewRelationLink(p, nil, nil)
	})
	pack.RegisterKind(KindCoreferenceGroup, func(p *pack.Pack, _ ontology.Span) (ontology.Entry, error) {
		return NewCoreferenceGroup(p)
	})
}
