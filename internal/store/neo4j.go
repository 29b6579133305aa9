package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"sockbowl/internal/model"
)

// Neo4jStore persists packets into a Neo4j graph, mirroring the node model
// the service originally used: a Packet node with CONTAINS_TOSSUP and
// CONTAINS_BONUS relationships carrying 1-based order properties, and
// HAS_BONUS_PART relationships carrying the part number.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.Logger
}

// Neo4jConfig holds connection settings for the graph store.
type Neo4jConfig struct {
	URI      string
	User     string
	Password string
	Database string
	Timeout  time.Duration
}

// NewNeo4jStore connects to Neo4j and verifies connectivity.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig, log *zap.Logger) (*Neo4jStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j URI is required")
	}
	if cfg.User == "" {
		cfg.User = "neo4j"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify neo4j connectivity: %w", err)
	}

	return &Neo4jStore{
		driver:   driver,
		database: cfg.Database,
		log:      log,
	}, nil
}

// SavePacket implements PacketStore. The packet graph is written in a single
// write transaction.
func (s *Neo4jStore) SavePacket(ctx context.Context, packet *model.Packet) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			`CREATE (p:Packet {name: $name, createdAt: datetime()}) RETURN elementId(p)`,
			map[string]any{"name": packet.Name})
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		packetID := record.Values[0].(string)

		for i, t := range packet.Tossups {
			_, err := tx.Run(ctx,
				`MATCH (p:Packet) WHERE elementId(p) = $packetId
				 CREATE (p)-[:CONTAINS_TOSSUP {order: $order}]->(:Tossup {question: $question, answer: $answer})`,
				map[string]any{
					"packetId": packetID,
					"order":    i + 1,
					"question": t.Question,
					"answer":   t.Answer,
				})
			if err != nil {
				return nil, fmt.Errorf("tossup %d: %w", i+1, err)
			}
		}

		for i, b := range packet.Bonuses {
			res, err := tx.Run(ctx,
				`MATCH (p:Packet) WHERE elementId(p) = $packetId
				 CREATE (p)-[:CONTAINS_BONUS {order: $order}]->(b:Bonus {preamble: $preamble})
				 RETURN elementId(b)`,
				map[string]any{
					"packetId": packetID,
					"order":    i + 1,
					"preamble": b.Preamble,
				})
			if err != nil {
				return nil, fmt.Errorf("bonus %d: %w", i+1, err)
			}
			record, err := res.Single(ctx)
			if err != nil {
				return nil, fmt.Errorf("bonus %d: %w", i+1, err)
			}
			bonusID := record.Values[0].(string)

			for j, part := range b.Parts {
				_, err := tx.Run(ctx,
					`MATCH (b:Bonus) WHERE elementId(b) = $bonusId
					 CREATE (b)-[:HAS_BONUS_PART {part: $part}]->(:BonusPart {question: $question, answer: $answer})`,
					map[string]any{
						"bonusId":  bonusID,
						"part":     j + 1,
						"question": part.Question,
						"answer":   part.Answer,
					})
				if err != nil {
					return nil, fmt.Errorf("bonus part %d.%d: %w", i+1, j+1, err)
				}
			}
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to save packet to neo4j: %w", err)
	}

	s.log.Info("packet saved to neo4j",
		zap.String("name", packet.Name),
		zap.Int("tossups", len(packet.Tossups)),
		zap.Int("bonuses", len(packet.Bonuses)))
	return nil
}

// Close implements PacketStore.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
