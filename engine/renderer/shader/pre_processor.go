package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-pano/engine/camera"
)

// StructCamera is the registry key of the CameraUniform struct.
const StructCamera = "camera"

// registryEntry pairs an embedded WGSL struct source with the type name it declares.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	registry     map[string]registryEntry
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and group
	// annotations with generated @group/@binding declarations. Each struct is injected at most
	// once per source.
	//
	// Parameters:
	//   - source: WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded source
	//   - error: error if an annotation is malformed or names an unregistered struct
	Process(source string) (string, error)

	// Declarations returns the group annotations collected by the most recent Process call, in
	// source order.
	//
	// Returns:
	//   - []Annotation: the binding declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the camera struct registered.
//
// Parameters:
//   - options: variadic list of PreProcessorOption to register further structs
//
// Returns:
//   - PreProcessor: the configured pre-processor
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		registry: map[string]registryEntry{
			StructCamera: {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
		},
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil
	included := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		entry, ok := p.registry[a.Struct]
		if !ok {
			return "", fmt.Errorf("line %d: unknown struct %q", a.Line, a.Struct)
		}

		switch a.Type {
		case AnnotationTypeInclude:
			if included[a.Struct] {
				continue
			}
			included[a.Struct] = true
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			wgslType := entry.Type
			if a.Array {
				wgslType = fmt.Sprintf("array<%s>", entry.Type)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, addressSpaceSyntax[a.AddressSpace], a.Name, wgslType))
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
