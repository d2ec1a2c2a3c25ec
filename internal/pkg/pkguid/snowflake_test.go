package pkguid

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
)

func TestSnowflakeGenerateIncreasing(t *testing.T) {
	gen, err := NewSnowflake()
	if err != nil {
		t.Fatalf("NewSnowflake: %v", err)
	}

	prev := gen.Generate()
	for range 100 {
		id := gen.Generate()
		if id <= prev {
			t.Fatalf("expected increasing ids, got %d after %d", id, prev)
		}
		prev = id
	}
}

func TestSnowflakeUsesCustomEpoch(t *testing.T) {
	gen, err := NewSnowflakeNode(3)
	if err != nil {
		t.Fatalf("NewSnowflakeNode: %v", err)
	}

	id := snowflake.ID(gen.Generate())
	if id.Node() != 3 {
		t.Fatalf("expected node 3, got %d", id.Node())
	}

	at := time.UnixMilli(id.Time())
	if d := time.Since(at); d < 0 || d > time.Minute {
		t.Fatalf("id time %v is not close to now", at)
	}
}

func TestSnowflakeNodeRejectsOutOfRange(t *testing.T) {
	if _, err := NewSnowflakeNode(maxNode + 1); err == nil {
		t.Fatal("expected error for node id out of range")
	}
	if _, err := NewSnowflakeNode(-1); err == nil {
		t.Fatal("expected error for negative node id")
	}
}
