// Package types provides shared types and error definitions for cqlprobe.
//
// This is a leaf package with zero cqlprobe imports to prevent import cycles.
// All packages in cqlprobe can safely import this package.
//
// # Steps
//
// Step names the statements of the probe script in execution order:
//
//	connect, create_keyspace, create_table, insert, select, update, delete
//
// # Errors
//
// Sentinel errors classify a failed run:
//
//   - ErrMissingEnv: A required environment variable is absent
//   - ErrMalformedEnv: An environment variable has an unusable value
//   - ErrTLSConfig: The CA certificate could not be loaded
//   - ErrConnect: The session could not be created
//   - ErrQuery: A statement failed
//   - ErrDecode: A row could not be mapped
//
// Statement failures arrive as *StepError, which unwraps to both the kind
// sentinel and the driver error:
//
//	var stepErr *types.StepError
//	if errors.As(err, &stepErr) && errors.Is(err, types.ErrQuery) {
//	    log.Printf("step %s failed: %v", stepErr.Step, stepErr.Cause)
//	}
package types
