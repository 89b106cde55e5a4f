// Package entmap implements a round-trip parser and writer for the
// brace-delimited entity map text format, the declarative format used to
// describe collections of game-world objects.
//
// # Document Shape
//
// A document is an optional header followed by any number of entity
// blocks:
//
//	Version 7
//	HierarchyVersion 1
//	properties{
//		"key" = "value"
//	}
//	entity{
//		layers{ "layer_one" "layer_two" }
//		someFlag = true;
//		entityDef my_entity_0{
//			class = "idEntity";
//			inherit = "base";
//		}
//	}
//
// Every section of the header is optional; missing version numbers
// default to -1. Each entity carries an optional layers block, any
// number of flat or nested key/value assignments, and exactly one
// mandatory entityDef block whose name identifies the entity.
//
// # Value Model
//
// Parsed data is held in a closed tagged union, Value, covering null,
// bool, int, float, string, ordered object and layer-list kinds. Object
// fields keep insertion order so that writing a parsed document
// reproduces it assignment for assignment.
//
// Line (//) and block (/* */) comments are accepted anywhere and are
// stripped before semantic interpretation; they do not survive a
// round-trip. Numeric literals with an integral value normalize to
// integers, so 3.0 parses to the int 3.
//
// Document parsing fans entity fragments out to a worker pool and
// reassembles results in document order; see ParseDocument.
package entmap
