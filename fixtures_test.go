package joinery

type user struct {
	ID   int
	Name string
}

type post struct {
	ID    int
	Title string
}

func (p *post) Identity() any { return p.ID }

type comment struct {
	ID int
}

type labeled struct {
	ID   int
	Meta any
}

type topic struct {
	ID int
}

// userPostsShape is Vec<UserWithPosts{user: One<0>, posts: Vec0<PostWithComments{post: One<1>, comments: Vec0<2>}>}>.
func userPostsShape() *Transformation {
	return Nest(AtLeastOne, "UserWithPosts",
		Field("user", One, 0),
		Group("posts", Nest(AtLeastZero, "PostWithComments",
			Field("post", One, 1),
			Field("comments", AtLeastZero, 2))))
}

func obj(typ string, fields ...Attr) *Object {
	return &Object{Type: typ, Fields: fields}
}

func field(name string, v any) Attr {
	return Attr{Name: name, Value: v}
}
