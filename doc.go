/*
Package jdb implements a persistent object-graph store on top of an
ordered key-value engine (bbolt by default).

The in-memory data model is the JSON value algebra: null, boolean, number,
string, ordered object, and array. There is no schema and no table
concept — a store holds one graph, rooted at an object or an array, and
any path into that graph (a sequence of object keys and array indices) can
be read or written directly.

We implement:

1. A Path Codec that turns a path plus a kind suffix into a byte-ordered
key, such that the children of any node occupy a contiguous key range.

2. A Buffered Store overlaying pending writes and range tombstones on top
of the key-value engine, giving every transaction read-your-writes
semantics and atomic commit/abort.

3. Graph Views, the user-facing live handles onto objects and arrays,
translating member access, assignment, deletion, and iteration into Path
Codec + Buffered Store operations.

# Technical Details

**Keys.** Every stored record's key is built from a descent prefix (the
concatenation of its path's steps) followed by a one-byte kind suffix:
'=' for a scalar leaf, '.' for an object container marker, '[' for an
array container marker. Object steps are a '.' followed by the
JSON-quoted key; array steps are '[' followed by the decimal index and
']'. So the record at d["a"]["b"][0] is keyed `."a"."b"[0]=`.

**Container ranges.** A container's own marker key doubles as the lower
bound of its descendant range; the upper bound is that same key with its
last byte incremented. Iterating a container means scanning that range
and peeling one step at a time off each key relative to the container's
own prefix.

**Buckets.** The path-encoded keyspace lives in one flat bucket
("records"). A separate "meta" bucket holds a small msgpack-encoded
bookkeeping document (format version, open count) that never
participates in the graph's own invariants.

**Metadata value**: msgpack of StoreMetadata.
*/
package jdb
