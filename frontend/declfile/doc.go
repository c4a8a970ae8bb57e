// Package declfile is a front-end reading hand-written YAML descriptor
// files, one unit per file.
//
// A descriptor lists imports and declarations:
//
//	imports:
//	  - from: ./guild
//	    names: [Guild, {name: Rank, as: GuildRank}]
//	decls:
//	  - struct: Player
//	    exported: true
//	    extends: [Base]
//	    props:
//	      - {name: Name, type: string}
//	      - {name: Score, type: {union: [number, Score]}, optional: true}
//	    methods:
//	      - name: Rename
//	        params: [{name: name, type: string}]
//	        results: [boolean]
//	  - alias: Scores
//	    type: {array: number}
//	  - func: NewPlayer
//	    results: [Player]
//
// Type expressions are scalars or single-key mappings. Builtin names
// (string, number, boolean, object, void, undefined, any) are keywords;
// null, true, false, numbers and quoted scalars are literals; any other
// scalar references a type by name. Mappings select array, map, union,
// intersection, ref, ident, literal, struct or func. A bare null value
// leaves the slot empty; write {literal: null} for the null type.
package declfile
