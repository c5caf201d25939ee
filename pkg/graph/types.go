package graph

import (
	"math"

	"github.com/goalgraph/goalgraph/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Kind categorizes a goal node. Kinds affect styling and boundary policy
// (the network payload excludes tasks) but never placement or analysis.
type Kind string

// Goal kinds.
const (
	KindDirective   Kind = "directive"
	KindProject     Kind = "project"
	KindAchievement Kind = "achievement"
	KindRoutine     Kind = "routine"
	KindTask        Kind = "task"
)

// ValidKinds is the set of supported goal kinds.
var ValidKinds = map[Kind]bool{
	KindDirective:   true,
	KindProject:     true,
	KindAchievement: true,
	KindRoutine:     true,
	KindTask:        true,
}

// ParseKind validates a kind string.
// Returns ErrCodeInvalidKind for anything outside the closed enum.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !ValidKinds[k] {
		return "", errors.New(errors.ErrCodeInvalidKind, "unknown goal kind %q", s)
	}
	return k, nil
}

// Relation is the closed relationship enum between two goals.
type Relation string

// Relationship kinds.
const (
	// RelationChild is hierarchical containment: parent -> child.
	RelationChild Relation = "child"
	// RelationQueue is sequencing: predecessor -> successor.
	RelationQueue Relation = "queue"
)

// ParseRelation validates a relation string.
// Returns ErrCodeInvalidRelation for anything outside the closed enum.
func ParseRelation(s string) (Relation, error) {
	r := Relation(s)
	if r != RelationChild && r != RelationQueue {
		return "", errors.New(errors.ErrCodeInvalidRelation, "unknown relationship kind %q", s)
	}
	return r, nil
}

// =============================================================================
// Node & Edge - Serialization and Model Types
// =============================================================================

// Point is a 2-D position.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Valid reports whether both coordinates are finite.
// Stored positions with NaN or infinite coordinates are treated as absent.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Node is a goal in the graph. IDs are stable across refreshes (they come
// from the persistence layer); Position is the optional stored position
// reused by the layout engine. Nodes are never deleted by the engine -
// deletion upstream simply omits the node from the next ingested list.
type Node struct {
	ID        int64  `json:"id" bson:"id"`
	Name      string `json:"name,omitempty" bson:"name,omitempty"`
	Kind      Kind   `json:"kind" bson:"kind"`
	Completed bool   `json:"completed,omitempty" bson:"completed,omitempty"`
	Position  *Point `json:"position,omitempty" bson:"position,omitempty"`
}

// Edge is a directed relationship between two goals.
// Identity is the ordered pair (From, To) per relation kind; duplicates are
// idempotently merged during Build.
type Edge struct {
	From     int64    `json:"from" bson:"from"`
	To       int64    `json:"to" bson:"to"`
	Relation Relation `json:"relationship_type" bson:"relationship_type"`
}

// Key returns the edge's identity key.
func (e Edge) Key() EdgeKey { return EdgeKey{From: e.From, To: e.To} }

// EdgeKey identifies an edge by its ordered endpoint pair.
// Used as the map key for edge importance and highlight sets.
type EdgeKey struct {
	From int64 `json:"from" bson:"from"`
	To   int64 `json:"to" bson:"to"`
}

// =============================================================================
// Boundary Validation
// =============================================================================

// ValidateRelationship checks a relationship-creation request before it
// reaches the model: the relation kind must be in the closed enum and
// self-relationships are rejected outright. The analyzer still tolerates a
// self-loop that slips through (it is reported as a size-1 cycle), but new
// ones must not be created.
func ValidateRelationship(from, to int64, relation string) (Relation, error) {
	rel, err := ParseRelation(relation)
	if err != nil {
		return "", err
	}
	if from == to {
		return "", errors.New(errors.ErrCodeSelfRelation, "goal %d cannot relate to itself", from)
	}
	return rel, nil
}
