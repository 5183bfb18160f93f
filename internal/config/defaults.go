package config

// Default configuration values, taken from the original CUTLASS build setup.
const (
	DefaultInputDir       = "build/tools/library/generated/gemm"
	DefaultOutputDir      = "build/tools/library/generated_ptx/gemm"
	DefaultNVCC           = "/usr/local/cuda/bin/nvcc"
	DefaultArch           = "80"
	DefaultTimeoutSeconds = 300
)

// defaultFlags is the fixed flag vocabulary from the original build. The
// --generate-code entry is the substitution target for non-default
// architectures.
var defaultFlags = []string{
	"-DCUTLASS_VERSIONS_GENERATED",
	"-O3",
	"-DNDEBUG",
	"-std=c++17",
	"--generate-code=arch=compute_80,code=sm_80",
	"-Xcompiler=-fPIC",
	"-DCUTLASS_ENABLE_TENSOR_CORE_MMA=1",
	"-DCUTLASS_ENABLE_GDC_FOR_SM100=1",
	"--expt-relaxed-constexpr",
	"-ftemplate-backtrace-limit=0",
	"-DCUTLASS_TEST_LEVEL=0",
	"-DCUTLASS_TEST_ENABLE_CACHED_RESULTS=1",
	"-DCUTLASS_CONV_UNIT_TEST_RIGOROUS_SIZE_ENABLED=1",
	"-DCUTLASS_DEBUG_TRACE_LEVEL=0",
	"-Xcompiler=-Wconversion",
	"-Xcompiler=-fno-strict-aliasing",
}

// defaultIncludes are the include arguments from the original build, passed
// verbatim to the compiler.
var defaultIncludes = []string{
	"-Iinclude",
	"-Ibuild/include",
	"-Itools/library/include",
	"-Itools/util/include",
	"-Itools/library/src",
	"-isystem", "/usr/local/cuda/include",
}

// defaultArchitectures is the known architecture set selectable via --arch.
var defaultArchitectures = []string{"50", "60", "61", "70", "75", "80"}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = DefaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.NVCC == "" {
		cfg.NVCC = DefaultNVCC
	}
	if cfg.Flags == nil {
		cfg.Flags = append([]string(nil), defaultFlags...)
	}
	if cfg.Includes == nil {
		cfg.Includes = append([]string(nil), defaultIncludes...)
	}
	if cfg.Architectures == nil {
		cfg.Architectures = append([]string(nil), defaultArchitectures...)
	}
	if cfg.DefaultArch == "" {
		cfg.DefaultArch = DefaultArch
	}
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
}
