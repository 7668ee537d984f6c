// Package models provides functionality for listing and categorizing
// available OpenAI models. It helps users discover which TTS, image
// generation, and chat models are usable with their API key.
package models
