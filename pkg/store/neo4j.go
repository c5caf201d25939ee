package store

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/goalgraph/goalgraph/pkg/errors"
	"github.com/goalgraph/goalgraph/pkg/graph"
)

// Neo4jStore persists positions onto the goal nodes themselves, as the
// position_x / position_y properties the graph source already exposes.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStore connects to Neo4j and verifies connectivity.
func NewNeo4jStore(ctx context.Context, uri, username, password string) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreConfig, err, "create neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "verify neo4j connectivity")
	}
	return &Neo4jStore{driver: driver}, nil
}

// Load retrieves every goal that has a stored position.
func (s *Neo4jStore) Load(ctx context.Context) (map[int64]graph.Point, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		records, err := tx.Run(ctx,
			"MATCH (g:Goal) WHERE g.position_x IS NOT NULL AND g.position_y IS NOT NULL "+
				"RETURN id(g) AS id, g.position_x AS x, g.position_y AS y",
			nil)
		if err != nil {
			return nil, err
		}

		positions := make(map[int64]graph.Point)
		for records.Next(ctx) {
			rec := records.Record()
			id, _ := rec.Get("id")
			x, _ := rec.Get("x")
			y, _ := rec.Get("y")

			nodeID, ok := id.(int64)
			if !ok {
				continue
			}
			p := graph.Point{X: toFloat(x), Y: toFloat(y)}
			if !p.Valid() {
				continue
			}
			positions[nodeID] = p
		}
		return positions, records.Err()
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load positions")
	}
	return result.(map[int64]graph.Point), nil
}

// SetPosition writes one goal's position.
func (s *Neo4jStore) SetPosition(ctx context.Context, id int64, p graph.Point) error {
	if err := validPoint(p); err != nil {
		return err
	}
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx,
			"MATCH (g:Goal) WHERE id(g) = $id SET g.position_x = $x, g.position_y = $y",
			map[string]any{"id": id, "x": p.X, "y": p.Y})
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "set position for %d", id)
	}
	return nil
}

// Commit writes a batch of positions in one transaction.
func (s *Neo4jStore) Commit(ctx context.Context, positions map[int64]graph.Point) error {
	if len(positions) == 0 {
		return nil
	}
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for id, p := range positions {
			if !p.Valid() {
				continue
			}
			_, err := tx.Run(ctx,
				"MATCH (g:Goal) WHERE id(g) = $id SET g.position_x = $x, g.position_y = $y",
				map[string]any{"id": id, "x": p.X, "y": p.Y})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "commit %d positions", len(positions))
	}
	return nil
}

// Close shuts down the driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	default:
		return 0
	}
}

var _ PositionStore = (*Neo4jStore)(nil)
