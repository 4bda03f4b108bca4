// Package decode turns serialized documents back into jsonfrag values.
//
// Objects and maps keep the order in which their entries appear in the
// input, so a decoded document encodes back to the same key order.
package decode
