package v2

import (
	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/arloliu/cqlprobe/adapter/cql"
)

// ToGocqlConsistency converts a cqlprobe Consistency to gocql.Consistency.
func ToGocqlConsistency(c cql.Consistency) gocql.Consistency {
	return gocql.Consistency(c)
}
