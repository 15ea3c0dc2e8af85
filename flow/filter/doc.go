// Package filter implements time-domain filters: RBJ biquads for the
// standard second-order responses and a complementary one-pole pair.
package filter
