// Package provider ships reference implementations of the engine.Provider
// boundary.
//
//   - FixtureProvider reads device and data point records from a YAML file.
//     Used by tests and the interactive explorer for offline work.
//   - HTTPProvider talks JSON to a PlantView gateway's REST API.
//   - DiscoverGateways finds gateways on the local network via mDNS.
//
// The engine itself depends only on the Provider interface; nothing here
// is required to embed the engine behind another transport.
package provider
