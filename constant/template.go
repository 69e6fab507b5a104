// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// Handler Global Identifiers - these constants define the globals a Lua handler unit may declare.
const (
	HandlerNameVar      = "Name"
	HandlerPriorityVar  = "Priority"
	HandlerRequiresVar  = "Requires"
	HandlerMatchFn      = "Match"
	HandlerScriptFn     = "Script"
	HandlerArgumentsFn  = "Arguments"
	HandlerPrefixFn     = "Prefix"
	HandlerInitFilename = "_init.lua"
)

// HandlerReservedPrefix marks files in the handlers directory that discovery never loads.
const HandlerReservedPrefix = "_"

// HandlerInitContent is written to the marker file when the handlers directory is created.
const HandlerInitContent = `-- Files starting with "_" are ignored by handler discovery.
-- Put one handler per .lua or .yaml file next to this one.
`

// HandlerTemplate is a Go text/template for scaffolding new Lua handler files.
const HandlerTemplate = `{{ $divider := repeat "-" (plus (max (len .Pattern) (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @match   {{ .Pattern }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}

{{ .NameVar }} = "{{ .Name }}"

-- Lower values are checked first. The built-in default is 999.
{{ .PriorityVar }} = 100

-- Optional version constraint, e.g. ">= 0.1.0".
-- {{ .RequiresVar }} = ">= {{ .Version }}"


----- MAIN -----

--- Decides whether this handler captures the given URL.
-- @param url string
-- @return boolean
function {{ .MatchFn }}(url)
	return string.find(url, "{{ .Pattern }}", 1, true) ~= nil
end


--- Path to a browser script injected into the page before saving.
-- @return string|nil
function {{ .ScriptFn }}()
	return nil
end


--- Extra single-file flags, appended after the defaults.
-- @return string[]
function {{ .ArgumentsFn }}()
	return {}
end


--- Prefix prepended to the snapshot filename.
-- @param url string
-- @param title string
-- @return string
function {{ .PrefixFn }}(url, title)
	return ""
end

--- END MAIN ---

-- ex: ts=4 sw=4 et filetype=lua
`
