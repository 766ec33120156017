// Package compiler turns declarative aggregate documents into Binding trees.
//
// A document plays the role of generated schema constructors: it declares
// kinds (name, mode, fields) and named bindings, and the compiler registers
// every declared field in declaration order and every listed violation.
//
// # Document Format
//
// Documents are YAML or CUE with the same shape:
//
//	name: booking
//	kinds:
//	  Seat:    { fields: [number, holder] }
//	  Book:    { mode: disjoint, fields: [taken, booked] }
//	bindings:
//	  seat1:   { kind: Seat, data: { number: "1A", holder: kim } }
//	  taken:   { kind: Taken, violations: [alreadyExists] }
//	  ...
//	checks:
//	  - root: book
//	    expect: { consistent: true }
//
// Values inside data map onto Discovery's container shapes:
//
//	scalar                           opaque value
//	[...]                            invariant.List
//	{k: v, ...}                      invariant.Map in key order
//	{$ref: name}                     the named Binding
//	{$set: [...]}                    invariant.Set
//	{$entry: {key: k, value: v}}     invariant.Entry
//	{$delta: {before, after}}        delta.Delta of two named Bindings
//	{$delta: {..., except: [f...]}}  also registers "unchanged except f..."
//	                                 on the enclosing binding when violated
//	{$xi: {before, after}}           delta.Xi of two named Bindings
//
// In CUE documents, violations are usually computed with comprehensions:
//
//	violations: [ if data.booked > data.capacity { "overbooked" } ]
//
// Validate reports every problem in a document; Compile fails on the first.
package compiler
