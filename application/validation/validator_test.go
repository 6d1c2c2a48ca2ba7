package validation

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mexbridge/mexbridge/domain/entities"
	domainerrors "github.com/mexbridge/mexbridge/domain/errors"
)

func TestValidateRuntimeConfig_Valid(t *testing.T) {
	cfg := &entities.RuntimeConfig{
		RuntimeHome: t.TempDir(),
		SysImage:    "sys.so",
		LibPath:     "libjulia.so",
	}

	require.NoError(t, ValidateRuntimeConfig(cfg))
}

func TestValidateRuntimeConfig_MissingHome(t *testing.T) {
	err := ValidateRuntimeConfig(&entities.RuntimeConfig{})
	require.Error(t, err)

	var cfgErr *domainerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "runtime_home", cfgErr.Field)
	assert.Contains(t, err.Error(), "'required' rule")
}

func TestValidateRuntimeConfig_HomeDoesNotExist(t *testing.T) {
	cfg := &entities.RuntimeConfig{RuntimeHome: filepath.Join(t.TempDir(), "missing")}

	err := ValidateRuntimeConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'dir' rule")
}

func TestValidateRuntimeConfig_Nil(t *testing.T) {
	err := ValidateRuntimeConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime config is missing")
}

func TestValidateStruct_Generic(t *testing.T) {
	type replOptions struct {
		Prompt string `yaml:"prompt" validate:"required"`
		Done   string `yaml:"done,omitempty" validate:"max=1"`
	}

	require.NoError(t, ValidateStruct(&replOptions{Prompt: "jl> ", Done: ";"}))

	err := ValidateStruct(&replOptions{Prompt: "jl> ", Done: ";;"})
	var cfgErr *domainerrors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "done", cfgErr.Field)
}

func TestYamlName(t *testing.T) {
	assert.Equal(t, "runtime_home", yamlName("runtime_home", "RuntimeHome"))
	assert.Equal(t, "sys_image", yamlName("sys_image,omitempty", "SysImage"))
	assert.Equal(t, "LibPath", yamlName("", "LibPath"))
	assert.Equal(t, "", yamlName("-", "Hidden"))
}
