// Package lua discovers translation providers written in Lua.
//
// Each plugin lives in its own directory under the plugins directory:
//
//	plugins/
//	  glossary/
//	    manifest.json
//	    init.lua
//
// The manifest follows the catalog format ("displayName", "contributes"),
// plus an optional "id" (defaults to "<publisher>.<name>", then the directory
// name) and "main" (defaults to "init.lua"). The script must define a global
// function translate(text, from, to) returning a string or nil, and may define
// attribution as a string or a function returning one.
//
// Scripts run in a sandbox without the io, os, debug and package libraries.
// A gopher-lua state is not goroutine-safe, so calls into a plugin are serialised.
package lua
