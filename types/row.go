package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Row is one record of aws_cassandra_test.table_test.
type Row struct {
	// UserID is the primary key.
	UserID uuid.UUID

	// Description is free text.
	Description string

	// Date is the server-side insertion timestamp (millisecond precision).
	Date time.Time
}

// String renders the row the way the probe prints query results.
func (r Row) String() string {
	date := "null"
	if !r.Date.IsZero() {
		date = r.Date.UTC().Format(time.RFC3339Nano)
	}

	return fmt.Sprintf("Row { user_id: %s, description: %q, date: %s }", r.UserID, r.Description, date)
}
