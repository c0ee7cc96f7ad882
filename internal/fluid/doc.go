// Package fluid is the buoyancy core.
//
// A Model owns two flat arenas: masses (floating or sinking bodies) and
// basins (pools and the cavities of boats floating in them). Relationships
// between them are indices recomputed every tick. Each call to Model.Step
//
//  1. refreshes the vertical extent of every visible mass from the engine,
//  2. assigns each mass to its innermost containing basin,
//  3. moves fluid between a pool and its boat (fill, spill, overflow),
//  4. discards pool overflow above the rim,
//  5. solves each basin's surface height, parent before child,
//  6. computes buoyancy, gravity, viscous drag and boat load per mass,
//  7. pushes the forces into the engine and advances it,
//  8. reads back contact forces and positions.
//
// The step is single-threaded. Observable accessors must not be called while
// a step is in progress; with Context.Debug set, such reads are logged and
// counted.
package fluid
