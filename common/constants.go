package common

// CompilerVersion is the current compiler version as a string.  It is also the
// value of the `CompilerVersion` preprocessor constant.
const CompilerVersion string = "0.1.0"

// ConfigFileName is the default name for resolver configuration files.
const ConfigFileName string = "easlyc.toml"
