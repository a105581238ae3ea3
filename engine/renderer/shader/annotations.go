// annotations.go defines the @oxy: annotations understood by the WGSL pre-processor. Annotations
// are single-line WGSL comments that inject registered struct sources and generate bind group
// declarations, so the Go GPU types and their WGSL mirrors are written once.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix marks an annotation inside a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the WGSL source of a registered struct at the annotation site.
	//
	// Syntax: //@oxy:include <struct>
	//
	// Example: //@oxy:include camera
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a @group/@binding variable declaration whose type is a
	// registered struct, or an array of one.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <struct|array<struct>>
	//
	// Example: //@oxy:group 0 1 read sprites array<sprite>
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// AddressSpace is the address space argument of a group annotation.
type AddressSpace string

const (
	// AddressSpaceUniform declares var<uniform>.
	AddressSpaceUniform AddressSpace = "uniform"

	// AddressSpaceRead declares var<storage, read>.
	AddressSpaceRead AddressSpace = "read"
)

// addressSpaceSyntax maps an address space argument to its WGSL var<> syntax.
var addressSpaceSyntax = map[AddressSpace]string{
	AddressSpaceUniform: "var<uniform>",
	AddressSpaceRead:    "var<storage, read>",
}

// Annotation is a single parsed @oxy: annotation.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Struct is the registry key of the referenced struct.
	Struct string

	// Array is set when a group annotation declares array<Struct>.
	Array bool

	// Line is the 1-based source line, used for error reporting.
	Line int

	// Group, Binding, AddressSpace and Name are only set for group annotations.
	Group        int
	Binding      int
	AddressSpace AddressSpace
	Name         string
}

// parseAnnotation parses one source line. Lines without the annotation prefix return (nil, nil).
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number
//
// Returns:
//   - *Annotation: the parsed annotation, or nil for ordinary lines
//   - error: error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy:include requires exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Struct: args[1], Line: lineNum}, nil
	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy:group requires five arguments (group, binding, address space, name, type)", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil || group < 0 {
			return nil, fmt.Errorf("line %d: invalid group number %q", lineNum, args[1])
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil || binding < 0 {
			return nil, fmt.Errorf("line %d: invalid binding number %q", lineNum, args[2])
		}
		space := AddressSpace(args[3])
		if _, ok := addressSpaceSyntax[space]; !ok {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		a := &Annotation{
			Type:         AnnotationTypeBindingGroup,
			Struct:       args[5],
			Line:         lineNum,
			Group:        group,
			Binding:      binding,
			AddressSpace: space,
			Name:         args[4],
		}
		if inner, ok := strings.CutPrefix(args[5], "array<"); ok {
			if !strings.HasSuffix(inner, ">") {
				return nil, fmt.Errorf("line %d: unterminated array type %q", lineNum, args[5])
			}
			if space == AddressSpaceUniform {
				return nil, fmt.Errorf("line %d: runtime arrays need the read address space", lineNum)
			}
			a.Struct = strings.TrimSuffix(inner, ">")
			a.Array = true
		}
		return a, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
