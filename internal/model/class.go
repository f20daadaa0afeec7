package model

import "fmt"

// ConsumerClass identifies a regulatory consumer class.
// Keep these values stable; they are used in JSON and CSV output.
type ConsumerClass string

const (
	ClassGrupoB      ConsumerClass = "grupo_b"
	ClassGrupoAGreen ConsumerClass = "grupo_a_verde"
	ClassGrupoABlue  ConsumerClass = "grupo_a_azul"
)

// RemoteOrder is the fixed order in which remote allocations draw from the bank.
var RemoteOrder = []ConsumerClass{ClassGrupoB, ClassGrupoAGreen, ClassGrupoABlue}

// Rank returns the position of c in RemoteOrder, or len(RemoteOrder) if unknown.
func (c ConsumerClass) Rank() int {
	for i, o := range RemoteOrder {
		if o == c {
			return i
		}
	}
	return len(RemoteOrder)
}

func (c ConsumerClass) IsGrupoA() bool {
	return c == ClassGrupoAGreen || c == ClassGrupoABlue
}

// Modality is the Grupo A time-of-use tariff modality.
type Modality string

const (
	ModalityGreen Modality = "verde"
	ModalityBlue  Modality = "azul"
)

func (m Modality) Class() ConsumerClass {
	if m == ModalityBlue {
		return ClassGrupoABlue
	}
	return ClassGrupoAGreen
}

func ParseModality(s string) (Modality, error) {
	switch Modality(s) {
	case ModalityGreen, ModalityBlue:
		return Modality(s), nil
	case "green":
		return ModalityGreen, nil
	case "blue":
		return ModalityBlue, nil
	default:
		return "", fmt.Errorf("unknown grupo A modality %q (want verde or azul)", s)
	}
}

// ParseConsumerClass accepts the class identifiers used in presets and CSV output.
func ParseConsumerClass(s string) (ConsumerClass, error) {
	switch c := ConsumerClass(s); c {
	case ClassGrupoB, ClassGrupoAGreen, ClassGrupoABlue:
		return c, nil
	default:
		return "", fmt.Errorf("unknown consumer class %q", s)
	}
}
