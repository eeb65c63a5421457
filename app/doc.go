// Package app implements the terminal user interface for homefix.
//
// It provides a Bubble Tea program with chat, photo and result tabs on top of
// the conversation and photo view-models. Network calls run as commands and
// report back as messages; the main entry point is Run.
package app
