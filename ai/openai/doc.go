// Package openai provides text embeddings backed by OpenAI-compatible APIs
// via langchaingo. It works with the hosted OpenAI service as well as local
// servers that speak the same protocol (Ollama, vLLM, LocalAI).
package openai
