package gpu

import "fmt"

// CompileError reports a shader stage rejected by the driver.
type CompileError struct {
	Stage  ShaderStage
	Log    string
	Source string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program rejected by the driver at link time.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}

// UnsupportedTypeError is raised at program creation for a reflected
// uniform or attribute type that has no setter.
type UnsupportedTypeError struct {
	Name string
	Type Type
	Code uint32
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported parameter type 0x%X for %q", e.Code, e.Name)
}

// IncompleteTargetError reports a framebuffer that failed its completeness check.
type IncompleteTargetError struct {
	Status uint32
}

func (e *IncompleteTargetError) Error() string {
	return fmt.Sprintf("render target incomplete: status=0x%X", e.Status)
}
