// Package enum maps Go enum values to the labels a database stores for
// them, such as the members of a PostgreSQL ENUM type.
//
// A Codec is built from the variants of a type and a RenameRule that turns
// variant names into labels; a per-variant Rename overrides the rule:
//
//	type Animal int
//
//	const (
//	    Chicken Animal = iota
//	    Duck
//	    Goose
//	)
//
//	var animals = enum.MustCodec(enum.SnakeCase,
//	    enum.Variant[Animal]{Value: Chicken, Name: "Chicken"},
//	    enum.Variant[Animal]{Value: Duck, Name: "Duck"},
//	    enum.Variant[Animal]{Value: Goose, Name: "Goose", Rename: "oca"},
//	)
//
// Values are read and written with Codec.Scanner and Codec.Valuer. Variants
// that carry data keep the discriminator in the enum column and the data in
// a separate JSON column; Tagged decodes the pair.
package enum
