// Package render turns scene documents into visual artifacts.
//
// # Overview
//
// Rendering is split the way the rest of the system depends on it:
//
//   - [svg] compiles a scene document into SVG bytes — the intermediate
//     vector representation. This step is pure and deterministic: the same
//     document always produces byte-identical SVG.
//   - [raster] converts SVG bytes into PNG pixels behind a narrow
//     Rasterizer interface. The default engine rasterizes in-process; an
//     rsvg-convert engine is available where librsvg is installed and also
//     provides PDF export.
//   - [diff] compares two raster images and reports a similarity score
//     plus a visual diff image.
//   - [structure] renders a document's group tree as a node-link diagram
//     via Graphviz, for debugging.
//
// Raster output feeds the reconstruction critique loop and stored
// thumbnails, which is why determinism is part of the contract and not just
// a nicety.
//
// [svg]: github.com/inkwell-studio/inkwell/pkg/render/svg
// [raster]: github.com/inkwell-studio/inkwell/pkg/render/raster
// [diff]: github.com/inkwell-studio/inkwell/pkg/render/diff
// [structure]: github.com/inkwell-studio/inkwell/pkg/render/structure
package render
