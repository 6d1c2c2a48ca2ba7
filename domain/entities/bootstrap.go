package entities

// BootstrapScript holds the expressions executed in the embedded runtime after
// the low-level bootstrap. Their text is in the runtime's own language.
type BootstrapScript struct {
	// Startup loads the user's startup file when it exists and the runtime's
	// startup-file option is not disabled.
	Startup string

	// InstallInterop installs the interop package. Only run when the CI
	// environment variable is set.
	InstallInterop string

	// LoadInterop loads the packages calls depend on, in order.
	LoadInterop []string
}

// DefaultBootstrapScript returns the script for a Julia runtime.
func DefaultBootstrapScript() BootstrapScript {
	return BootstrapScript{
		Startup: `let f = joinpath(first(DEPOT_PATH), "config", "startup.jl"); ` +
			`Base.JLOptions().startupfile != 2 && isfile(f) && Base.include(Main, f); end`,
		InstallInterop: `import Pkg; Pkg.add("MexInterop")`,
		LoadInterop:    []string{"using MexInterop"},
	}
}
