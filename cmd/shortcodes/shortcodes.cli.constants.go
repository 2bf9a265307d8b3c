package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameTrace    = "trace"
	CmdNameTags     = "tags"
	CmdNameVersion  = "version"
)

// Flag names - long form
const (
	FlagConfig      = "config"
	FlagNoColor     = "no-color"
	FlagVerbose     = "verbose"
	FlagOutput      = "output"
	FlagConcurrency = "concurrency"
	FlagFormat      = "format"
)

// Flag names - short form
const (
	FlagConfigShort      = "c"
	FlagVerboseShort     = "v"
	FlagOutputShort      = "o"
	FlagConcurrencyShort = "j"
	FlagFormatShort      = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeUsageError = 2
	ExitCodeInputError = 3
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgReadFileFailed    = "failed to read input"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgConfigFailed      = "failed to load configuration"
	ErrMsgRenderFailed      = "render failed"
	ErrMsgValidateFailed    = "validation failed"
	ErrMsgTraceFailed       = "trace failed"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgInvalidWorkers    = "concurrency must be at least 1"
)

// Command help text
const (
	CLIName        = "shortcodes"
	CLIDescription = "Render shortcodes in text files"
	CLILongHelp    = `shortcodes renders WordPress-style shortcodes embedded in text.

Tags look like {% name arg key="value" %}; block tags wrap content up to
their end tag. The built-in tags (snippet, env, markdown, html2md, upper,
lower, title, unaccent) are enabled through the YAML file given with
--config.`

	RenderShort = "Render shortcodes in files or stdin"
	RenderLong  = `Render every shortcode in the given files and write the results, in
argument order, to the output. With no files, or with "-", stdin is read.
Files are rendered concurrently.`
	RenderExample = `  shortcodes render page.txt
  shortcodes render -c shortcodes.yaml a.txt b.txt -o out.txt
  cat page.txt | shortcodes render`

	ValidateShort = "Check files for nesting and tag errors without rendering"
	TraceShort    = "Show the order in which handlers would run"
	TagsShort     = "List the registered tags"
	VersionShort  = "Show version information"
)

// Output format templates
const (
	ValidationTextSuccess = "%s: valid\n"
	ValidationTextFailure = "%s: %v\n"
	TagsTextAtomic        = "%s\n"
	TagsTextBlock         = "%s ... %s\n"
	VersionTextTemplate   = "%s version %s\nGo: %s\n"
	FmtErrorWithCause     = "%s: %v\n"
)

// StdinDisplayName names stdin in messages
const StdinDisplayName = "<stdin>"

// File permission constant
const (
	FilePermissions = 0o644
)
