// Package conduit is the core of a client for Conduit, the Medium-like
// blogging platform of the RealWorld project.
//
// Each page is a model driven by messages: Init builds it, Update
// handles its own messages and Sink handles messages broadcast to
// every page.  Pages never do I/O themselves.  They hand commands to
// package orders, and package app runs those commands, routes URLs to
// pages and keeps the viewer's session.
//
// The client runs headless.  cmd/conduit couples it to stdin, a
// websocket, MQTT or a script and emits a JSON snapshot of the
// current page after every change.
package conduit
