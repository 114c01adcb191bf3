// Package generation turns raw study text into flashcards by asking a
// language-model completion service for a fixed number of front/back pairs.
//
// The Gateway owns the prompt, the input bounds and the parsing contract.
// Providers plug in through the Completer interface; the OpenAI and Gemini
// adapters live under internal/platform.
package generation
