package pkguid

import (
	"math/rand/v2"

	"github.com/bwmarrin/snowflake"
)

// Epoch is the custom snowflake epoch, Thu Jan 01 2026 00:00:00.000 UTC.
const Epoch int64 = 1767225600000

// maxNode is the largest node id representable in snowflake's 10 node bits.
const maxNode = 1<<10 - 1

// Snowflake generates time-ordered numeric IDs. Archived reports use them as
// primary keys so "ORDER BY id DESC" is newest first.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake constructs a Snowflake generator with a random node ID.
func NewSnowflake() (*Snowflake, error) {
	return NewSnowflakeNode(rand.Int64N(maxNode + 1))
}

// NewSnowflakeNode constructs a Snowflake generator for a fixed node ID (0..1023).
func NewSnowflakeNode(nodeID int64) (*Snowflake, error) {
	snowflake.Epoch = Epoch

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
