package idgen

import (
	"log"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// Init creates the process-wide snowflake node. Call once at startup, before
// any row with a generated ID is inserted.
func Init() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("Failed to init Snowflake: %v", err)
	}
}

// GenerateID returns the next snowflake ID. It initializes the node lazily so
// model hooks also work in tests that skip main.
func GenerateID() int64 {
	if node == nil {
		Init()
	}
	return node.Generate().Int64()
}
