package config

type Model string

const (
	ModelGemini15Flash   Model = "gemini-1.5-flash"
	ModelGemini15Flash8B Model = "gemini-1.5-flash-8b"
	ModelGemini15Pro     Model = "gemini-1.5-pro"
	ModelGemini20Flash   Model = "gemini-2.0-flash"
	ModelGemini25Flash   Model = "gemini-2.5-flash"
	ModelGemini25Pro     Model = "gemini-2.5-pro"
)

func SupportedModels() []Model {
	return []Model{
		ModelGemini15Flash,
		ModelGemini15Flash8B,
		ModelGemini15Pro,
		ModelGemini20Flash,
		ModelGemini25Flash,
		ModelGemini25Pro,
	}
}

// IsKnownModel reports whether name is one of SupportedModels. Other names
// are still sent to the API as given.
func IsKnownModel(name string) bool {
	for _, m := range SupportedModels() {
		if string(m) == name {
			return true
		}
	}
	return false
}
