package entities

// RuntimeConfig locates the embedded runtime on disk. It is read from the
// configuration store once per initialization attempt.
type RuntimeConfig struct {
	// RuntimeHome is the runtime's home directory. On platforms that need it
	// the working directory is switched here while the runtime loads.
	RuntimeHome string `json:"runtime_home" yaml:"runtime_home" validate:"required,dir" jsonschema:"title=Runtime home,description=Home directory of the embedded runtime"`

	// SysImage is a precompiled system image loaded at bootstrap.
	SysImage string `json:"sys_image,omitempty" yaml:"sys_image,omitempty" jsonschema:"description=Precompiled system image loaded at bootstrap"`

	// LibPath is the runtime's shared library (or module) path.
	LibPath string `json:"lib_path,omitempty" yaml:"lib_path,omitempty" jsonschema:"description=Shared library or module implementing the runtime"`
}

// HostRootEnv names the environment variable holding the host installation
// root. It is written during initialization for the runtime to read.
const HostRootEnv = "MEXBRIDGE_HOST_ROOT"

// Version is the bridge version reported to the runtime.
const Version = "0.3.0"
