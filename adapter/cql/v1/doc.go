// Package v1 provides the cqlprobe adapter for gocql v1 (github.com/gocql/gocql).
//
// # Usage
//
//	session, err := v1.Dial(opts)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	runner, err := cqlprobe.NewRunner(session)
//
// Existing gocql sessions can be wrapped with NewSession.
package v1
