// Package unit defines the processing interface shared by every node in
// a signal graph, plus the control event type used to automate them.
package unit
