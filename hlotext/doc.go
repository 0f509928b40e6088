// Package hlotext parses the textual IR form produced by hlo's String
// methods, so modules can be written by hand for tests and tooling.
//
// The format is line oriented:
//
//	module example
//
//	computation helper {
//	  %p0 = param(0) : s32[]
//	  %neg = negate(%p0) : s32[]
//	  root %neg
//	}
//
//	entry computation main {
//	  %a = param(0) : s32[]
//	  %f = fusion(%a) calls=helper : s32[]
//	  root %f
//	}
//
// Instructions reference earlier instructions of the same computation by
// %name. A calls= attribute names the applied computation; forward
// references are resolved once the whole source is parsed. Everything after
// a colon is the instruction's shape token. Line comments start with //.
package hlotext
