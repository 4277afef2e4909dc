package v1

import (
	"github.com/gocql/gocql"

	"github.com/arloliu/cqlprobe/adapter/cql"
)

// ToGocqlConsistency converts a cqlprobe Consistency to gocql.Consistency.
//
// Parameters:
//   - c: cqlprobe consistency level
//
// Returns:
//   - gocql.Consistency: The equivalent gocql consistency level
func ToGocqlConsistency(c cql.Consistency) gocql.Consistency {
	return gocql.Consistency(c)
}
