package inference

import (
	"os"
	"runtime"
	"strconv"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// SharedLibraryEnv overrides the onnxruntime shared library location.
const SharedLibraryEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// Provider is an ONNX Runtime execution provider.
type Provider string

const (
	// ProviderCPU uses the default CPU kernels.
	ProviderCPU Provider = "cpu"
	// ProviderCUDA uses NVIDIA CUDA for GPU acceleration.
	ProviderCUDA Provider = "cuda"
	// ProviderCoreML uses Apple CoreML for macOS acceleration.
	ProviderCoreML Provider = "coreml"
	// ProviderOpenVINO uses Intel OpenVINO.
	ProviderOpenVINO Provider = "openvino"
)

// ErrUnsupportedProvider is returned for an unknown execution provider name.
var ErrUnsupportedProvider = errors.New("unsupported execution provider")

// ParseProvider converts a configuration string into a Provider. An empty
// string selects ProviderCPU.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case "":
		return ProviderCPU, nil
	case ProviderCPU, ProviderCUDA, ProviderCoreML, ProviderOpenVINO:
		return p, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedProvider, "%q", s)
	}
}

// Options controls how the onnxruntime session is created.
type Options struct {
	// SharedLibraryPath is the onnxruntime shared library. Empty selects
	// DefaultSharedLibraryPath().
	SharedLibraryPath string `json:"shared_library_path" yaml:"shared_library_path"`
	// Provider is the execution provider to append to the session.
	Provider Provider `json:"provider" yaml:"provider"`
	// ProviderOptions are passed verbatim to the CUDA and OpenVINO providers.
	// For CoreML, "flags" holds the numeric CoreML flags.
	ProviderOptions map[string]string `json:"provider_options" yaml:"provider_options"`
	// IntraOpThreads is the thread count used inside a graph node. Zero lets
	// onnxruntime decide.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
	// InterOpThreads is the thread count used across graph nodes. Zero lets
	// onnxruntime decide.
	InterOpThreads int `json:"inter_op_threads" yaml:"inter_op_threads"`
}

// DefaultOptions returns CPU execution with onnxruntime picking thread counts.
func DefaultOptions() Options {
	return Options{Provider: ProviderCPU}
}

// DefaultSharedLibraryPath returns the onnxruntime shared library for the
// current platform, or the value of SharedLibraryEnv when set.
func DefaultSharedLibraryPath() string {
	if p := os.Getenv(SharedLibraryEnv); p != "" {
		return p
	}
	switch runtime.GOOS {
	case "windows":
		return "./third_party/onnxruntime.dll"
	case "darwin":
		return "./third_party/libonnxruntime.dylib"
	default:
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so"
		}
		return "./third_party/onnxruntime.so"
	}
}

// sessionOptions builds native session options. The caller destroys them.
func sessionOptions(opts Options) (*ort.SessionOptions, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "creating session options")
	}

	if err := configureSessionOptions(options, opts); err != nil {
		options.Destroy()
		return nil, err
	}
	return options, nil
}

func configureSessionOptions(options *ort.SessionOptions, opts Options) error {
	if err := options.SetIntraOpNumThreads(opts.IntraOpThreads); err != nil {
		return errors.Wrap(err, "setting intra-op threads")
	}
	if err := options.SetInterOpNumThreads(opts.InterOpThreads); err != nil {
		return errors.Wrap(err, "setting inter-op threads")
	}
	if err := options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended); err != nil {
		return errors.Wrap(err, "setting graph optimization level")
	}

	switch opts.Provider {
	case ProviderCPU, "":
	case ProviderCoreML:
		flags, err := coreMLFlags(opts.ProviderOptions)
		if err != nil {
			return err
		}
		if err := options.AppendExecutionProviderCoreML(flags); err != nil {
			return errors.Wrap(err, "enabling CoreML")
		}
	case ProviderOpenVINO:
		if err := options.AppendExecutionProviderOpenVINO(opts.ProviderOptions); err != nil {
			return errors.Wrap(err, "enabling OpenVINO")
		}
	case ProviderCUDA:
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return errors.Wrap(err, "creating CUDA options")
		}
		defer cuda.Destroy()
		if len(opts.ProviderOptions) > 0 {
			if err := cuda.Update(opts.ProviderOptions); err != nil {
				return errors.Wrap(err, "updating CUDA options")
			}
		}
		if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
			return errors.Wrap(err, "enabling CUDA")
		}
	default:
		return errors.Wrapf(ErrUnsupportedProvider, "%q", opts.Provider)
	}
	return nil
}

// coreMLFlags reads the numeric CoreML flags, defaulting to 0.
func coreMLFlags(providerOptions map[string]string) (uint32, error) {
	s, ok := providerOptions["flags"]
	if !ok {
		return 0, nil
	}
	flags, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing coreml flags %q", s)
	}
	return uint32(flags), nil
}
