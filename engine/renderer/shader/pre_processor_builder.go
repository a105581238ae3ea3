package shader

// PreProcessorOption is a functional option for configuring a PreProcessor via NewPreProcessor.
type PreProcessorOption func(*preProcessor)

// WithStruct registers a WGSL struct under key for include and group annotations.
//
// Parameters:
//   - key: the annotation argument naming the struct
//   - typeName: the WGSL type name the source declares
//   - source: the WGSL struct definition
//
// Returns:
//   - PreProcessorOption: functional option to register the struct
func WithStruct(key, typeName, source string) PreProcessorOption {
	return func(p *preProcessor) {
		p.registry[key] = registryEntry{Source: source, Type: typeName}
	}
}
