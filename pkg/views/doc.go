// Package views contains the concrete fetch-to-render views: a GitHub
// profile card, NASA's astronomy picture of the day, and a ticking timer.
//
// Each constructor returns a view that has not been activated. Hosts call
// Activate with the matching request, render on every transition, and Close
// the view when it leaves the screen.
package views
