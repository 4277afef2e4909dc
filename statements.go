package cqlprobe

import "github.com/google/uuid"

// Keyspace and table the probe writes to.
const (
	Keyspace = "aws_cassandra_test"
	Table    = "table_test"
)

// Fixed values written by the script.
const (
	InsertedDescription = "Some description"
	UpdatedDescription  = "Updated description."
)

// UserID is the single key the script creates, reads, updates and deletes.
var UserID = uuid.MustParse("534a87db-df22-48eb-901b-4fac9c392954")

// Statements of the script. The keyspace and table are fixed, only values are bound.
const (
	createKeyspaceStmt = "CREATE KEYSPACE IF NOT EXISTS " + Keyspace +
		" WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1}"

	createTableStmt = "CREATE TABLE IF NOT EXISTS " + Keyspace + "." + Table +
		"(user_id UUID, description text, date timestamp, PRIMARY KEY(user_id))"

	insertStmt = "INSERT INTO " + Keyspace + "." + Table +
		" (user_id, description, date) VALUES (?, ?, toTimeStamp(now()))"

	selectStmt = "SELECT user_id, description, date FROM " + Keyspace + "." + Table +
		" WHERE user_id = ?"

	updateStmt = "UPDATE " + Keyspace + "." + Table + " SET description = ? WHERE user_id = ?"

	deleteStmt = "DELETE FROM " + Keyspace + "." + Table + " WHERE user_id = ?"
)
