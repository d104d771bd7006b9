// Package manifest reads and writes element manifests: the file form of a
// set of registrations for [topsort].
//
// # Format
//
// A manifest is a list of elements plus optional sort options. The element
// list is ordered; its order becomes the registration order and therefore
// decides the relative order of unconstrained elements.
//
//	[options]
//	same_type_grouping = true
//	detect_cycles = true
//
//	[[element]]
//	id = "car1"
//	type = "car"
//	depends = ["brand1"]
//
// JSON and YAML use the same shape with an "elements" list:
//
//	{"options": {}, "elements": [{"id": "car1", "type": "car", "depends": ["brand1"]}]}
//
// Unknown keys are rejected in every format. An id that appears twice
// overwrites the earlier entry but keeps its position, as [topsort.Registry.Add]
// does.
//
// # Loading
//
// [Load] detects the format from the file extension (.json, .toml, .yaml or
// .yml). [Read] decodes from any reader with an explicit [Format].
//
// [topsort]: github.com/matzehuels/stackorder/pkg/topsort
package manifest
