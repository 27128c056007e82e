package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a time-ordered int64 document ID.
// Falls back to node 0 when Init was never called.
func New() int64 {
	_ = Init(0)
	return node.Generate().Int64()
}

// Parse validates a document ID received as a path parameter.
func Parse(s string) (int64, error) {
	sf, err := snowflake.ParseString(s)
	if err != nil {
		return 0, err
	}
	return sf.Int64(), nil
}
