package util

// Envelope is the JSON body shape shared by handlers: {"error": msg} on
// failure or a single named payload.
type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

func Data(key string, value any) Envelope {
	return Envelope{key: value}
}
