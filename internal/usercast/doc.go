// Package usercast is a chat client plugin that pastes a nickname into the
// compose area when it is double-clicked in a chat roster.
//
// The plugin subscribes to host.TopicNickClicked, classifies each press with
// a click.Disambiguator and, on a confirmed double-click, casts the nickname
// with a cast.Caster whose configuration is read from the host preference
// store under PrefsRoot on every cast.
package usercast
