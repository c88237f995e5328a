// Package googleai implements metadata extraction and grounded answer
// generation on Google Gemini models via langchaingo, and assembles the
// full ai.Provider together with an OpenAI-compatible embedder.
package googleai
