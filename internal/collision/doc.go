// Package collision finds and resolves overlapping particle pairs.
//
// Each particle is a sphere of radius sqrt(mass). Detection is a plain
// O(n²) sweep over the world's particle collection in insertion order;
// resolution walks the detected pairs in that same order and applies each
// correction immediately, so later pairs observe earlier corrections.
//
// Velocity response is pluggable through [Policy]:
//
//   - [Reflect]: each particle mirrors its own velocity about the contact
//     plane, as if bouncing off a static wall. Does not conserve momentum.
//   - [Impulse]: momentum-conserving impulse along the normal with a
//     coefficient of restitution.
package collision
