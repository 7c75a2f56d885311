package types

type EcosystemKind string

const (
	EcosystemNode   EcosystemKind = "node"
	EcosystemErlang EcosystemKind = "erlang"
	EcosystemDotNet EcosystemKind = "dotnet"
	EcosystemPython EcosystemKind = "python"
	EcosystemRust   EcosystemKind = "rust"
	EcosystemDebian EcosystemKind = "debian"
)

// EcosystemSearchOrder is the priority in which version files are looked
// up. The first ecosystem with a match wins.
var EcosystemSearchOrder = []EcosystemKind{
	EcosystemNode,
	EcosystemErlang,
	EcosystemDotNet,
	EcosystemPython,
	EcosystemRust,
	EcosystemDebian,
}
