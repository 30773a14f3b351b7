package joinery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstruct_UserPostsComments(t *testing.T) {
	t.Parallel()

	a := user{1, "A"}
	rows := []Row{
		{a, &post{ID: 10}, comment{100}},
		{a, &post{ID: 10}, comment{101}},
		{a, &post{ID: 11}, nil},
	}
	shape := Nest(AtLeastOne, "UserWithPosts",
		Field("user", One, 0),
		Group("posts", Nest(AtLeastZero, "PostWithComments",
			Field("post", One, 1),
			Group("comments", Nest(AtLeastZero, "Comment",
				Field("comment", One, 2))))))

	got, err := Reconstruct(rows, shape)
	require.NoError(t, err)

	want := []any{
		obj("UserWithPosts",
			field("user", a),
			field("posts", []any{
				obj("PostWithComments",
					field("post", &post{ID: 10}),
					field("comments", []any{
						obj("Comment", field("comment", comment{100})),
						obj("Comment", field("comment", comment{101})),
					})),
				obj("PostWithComments",
					field("post", &post{ID: 11}),
					field("comments", []any{})),
			})),
	}
	assert.Equal(t, want, got, spew.Sdump(got))
}

func TestReconstruct_FirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{user{2, "B"}, &post{ID: 21}, nil},
		{user{1, "A"}, &post{ID: 11}, nil},
		{user{2, "B"}, &post{ID: 20}, nil},
		{user{3, "C"}, nil, nil},
		{user{1, "A"}, &post{ID: 10}, nil},
	}
	got, err := Reconstruct(rows, userPostsShape())
	require.NoError(t, err)

	list := got.([]any)
	require.Len(t, list, 3)
	var ids []int
	var postIDs [][]int
	for _, item := range list {
		o := item.(*Object)
		u, _ := o.Get("user")
		ids = append(ids, u.(user).ID)

		posts, _ := o.Get("posts")
		var ps []int
		for _, p := range posts.([]any) {
			v, _ := p.(*Object).Get("post")
			ps = append(ps, v.(*post).ID)
		}
		postIDs = append(postIDs, ps)
	}
	assert.Equal(t, []int{2, 1, 3}, ids)
	assert.Equal(t, [][]int{{21, 20}, {11, 10}, nil}, postIDs)
}

func TestReconstruct_DuplicateRows(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{user{1, "A"}, &post{ID: 10}, comment{100}},
		{user{1, "A"}, &post{ID: 11}, comment{110}},
	}
	var dup []Row
	for range 3 {
		dup = append(dup, rows...)
	}

	once, err := Reconstruct(rows, userPostsShape())
	require.NoError(t, err)
	many, err := Reconstruct(dup, userPostsShape())
	require.NoError(t, err)
	assert.Equal(t, once, many)
}

func TestReconstruct_InterleavedGrandchildren(t *testing.T) {
	t.Parallel()

	a := user{1, "A"}
	rows := []Row{
		{a, &post{ID: 10}, comment{100}},
		{a, &post{ID: 11}, comment{110}},
		{a, &post{ID: 10}, comment{101}},
		{a, &post{ID: 11}, comment{111}},
	}
	type postWithComments struct {
		Post     *post
		Comments []comment
	}
	type userWithPosts struct {
		User  user
		Posts []postWithComments
	}

	got, err := ReconstructInto[[]userWithPosts](rows, userPostsShape())
	require.NoError(t, err)
	assert.Equal(t, []userWithPosts{{
		User: a,
		Posts: []postWithComments{
			{Post: &post{ID: 10}, Comments: []comment{{100}, {101}}},
			{Post: &post{ID: 11}, Comments: []comment{{110}, {111}}},
		},
	}}, got)
}

func TestReconstruct_EmptyAtLeastZero(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{user{1, "A"}, nil, nil},
		{user{1, "A"}, (*post)(nil), nil},
	}
	got, err := Reconstruct(rows, userPostsShape())
	require.NoError(t, err)

	list := got.([]any)
	require.Len(t, list, 1)
	posts, ok := list[0].(*Object).Get("posts")
	require.True(t, ok)
	assert.Equal(t, []any{}, posts)
}

func TestReconstruct_EmptyInput(t *testing.T) {
	t.Parallel()

	got, err := Reconstruct(nil, userPostsShape())
	require.NoError(t, err)
	assert.Equal(t, []any{}, got)

	_, err = Reconstruct(nil, Nest(One, "User", Field("user", One, 0)))
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = Reconstruct(nil, Nest(MaybeOne, "User", Field("user", One, 0)))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReconstruct_AssumeOne(t *testing.T) {
	t.Parallel()

	shape := Nest(One, "UserTopic",
		Field("user", One, 0),
		Field("topic", AssumeOne, 1))

	_, err := Reconstruct([]Row{{user{ID: 1}, nil}}, shape)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeserialization)
	assert.Contains(t, err.Error(), "`AssumeOne` value is null: topic")

	got, err := Reconstruct([]Row{
		{user{ID: 1}, nil},
		{user{ID: 1}, topic{5}},
		{user{ID: 1}, topic{6}},
	}, shape)
	require.NoError(t, err)
	v, _ := got.(*Object).Get("topic")
	assert.Equal(t, topic{5}, v)
}

func TestReconstruct_ColumnQuantities(t *testing.T) {
	t.Parallel()

	shape := Nest(One, "UserTopic",
		Field("user", One, 0),
		Field("latest", MaybeOne, 1),
		Field("topics", AtLeastOne, 1))

	got, err := Reconstruct([]Row{
		{user{ID: 1}, topic{1}},
		{user{ID: 1}, topic{2}},
		{user{ID: 1}, topic{1}},
	}, shape)
	require.NoError(t, err)
	o := got.(*Object)
	latest, _ := o.Get("latest")
	topics, _ := o.Get("topics")
	assert.Equal(t, topic{1}, latest)
	assert.Equal(t, []any{topic{1}, topic{2}}, topics)

	got, err = Reconstruct([]Row{{user{ID: 1}, nil}}, shape)
	require.NoError(t, err)
	topics, _ = got.(*Object).Get("topics")
	assert.Equal(t, []any{}, topics)
}

func TestReconstruct_AbsentVecLevel(t *testing.T) {
	t.Parallel()

	got, err := Reconstruct([]Row{
		{nil, &post{ID: 1}, nil},
		{user{ID: 2}, nil, nil},
	}, userPostsShape())
	require.NoError(t, err)
	list := got.([]any)
	require.Len(t, list, 1)
	u, _ := list[0].(*Object).Get("user")
	assert.Equal(t, user{ID: 2}, u)
}

func TestReconstruct_OptionColumnKeepsLastValue(t *testing.T) {
	t.Parallel()

	shape := Nest(One, "UserTopic",
		Field("user", One, 0),
		Field("topic", MaybeOne, 1))

	got, err := Reconstruct([]Row{
		{user{ID: 1}, topic{1}},
		{user{ID: 1}, nil},
	}, shape)
	require.NoError(t, err)
	v, _ := got.(*Object).Get("topic")
	assert.Equal(t, topic{1}, v)

	got, err = Reconstruct([]Row{{user{ID: 1}, nil}}, shape)
	require.NoError(t, err)
	v, ok := got.(*Object).Get("topic")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestReconstruct_OptionLevel(t *testing.T) {
	t.Parallel()

	shape := Nest(AtLeastOne, "UserWithTopic",
		Field("user", One, 0),
		Group("topic", Nest(MaybeOne, "Topic", Field("topic", One, 1))))

	got, err := Reconstruct([]Row{
		{user{ID: 1}, nil},
		{user{ID: 2}, topic{7}},
	}, shape)
	require.NoError(t, err)
	list := got.([]any)
	require.Len(t, list, 2)

	v, _ := list[0].(*Object).Get("topic")
	assert.Nil(t, v)
	v, _ = list[1].(*Object).Get("topic")
	assert.Equal(t, obj("Topic", field("topic", topic{7})), v)
}

func TestReconstruct_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rows  []Row
		shape *Transformation
		want  error
	}{
		{
			name:  "absent discriminator at a One level",
			rows:  []Row{{nil}},
			shape: Nest(One, "User", Field("user", One, 0)),
			want:  ErrDeserialization,
		},
		{
			name:  "absent One column",
			rows:  []Row{{user{ID: 1}, nil}},
			shape: Nest(One, "UserTopic", Field("user", One, 0), Field("topic", One, 1)),
			want:  ErrDeserialization,
		},
		{
			name:  "two identities at a One level",
			rows:  []Row{{user{ID: 1}}, {user{ID: 2}}},
			shape: Nest(One, "User", Field("user", One, 0)),
			want:  ErrAmbiguous,
		},
		{
			name:  "short row",
			rows:  []Row{{user{ID: 1}}},
			shape: userPostsShape(),
			want:  ErrInvalidShape,
		},
		{
			name:  "non-comparable identity",
			rows:  []Row{{map[string]int{"id": 1}}},
			shape: Nest(AtLeastOne, "Thing", Field("thing", One, 0)),
			want:  ErrIdentity,
		},
		{
			name:  "interface field holding a slice",
			rows:  []Row{{labeled{ID: 1, Meta: []string{"x"}}}},
			shape: Nest(AtLeastZero, "Labeled", Field("label", One, 0)),
			want:  ErrIdentity,
		},
		{
			name:  "invalid shape",
			rows:  []Row{{user{ID: 1}}},
			shape: Nest(AtLeastOne, "Thing"),
			want:  ErrInvalidShape,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Reconstruct(tt.rows, tt.shape)
			assert.ErrorIs(t, err, tt.want, spew.Sdump(got))
			assert.Nil(t, got)
		})
	}
}

func TestReconstruct_WithKey(t *testing.T) {
	t.Parallel()

	byID := func(record any) (any, error) {
		if u, ok := record.(user); ok {
			return u.ID, nil
		}
		return DefaultKey(record)
	}
	rows := []Row{
		{user{1, "first"}, nil, nil},
		{user{1, "renamed"}, nil, nil},
	}

	got, err := Reconstruct(rows, userPostsShape(), WithKey(byID))
	require.NoError(t, err)
	list := got.([]any)
	require.Len(t, list, 1)
	u, _ := list[0].(*Object).Get("user")
	assert.Equal(t, user{1, "first"}, u)

	got, err = Reconstruct(rows, userPostsShape())
	require.NoError(t, err)
	assert.Len(t, got.([]any), 2)

	failing := func(any) (any, error) { return nil, errors.New("no key") }
	_, err = Reconstruct(rows, userPostsShape(), WithKey(failing))
	assert.ErrorContains(t, err, "row 0: user: no key")
}

func TestReconstructInto_Option(t *testing.T) {
	t.Parallel()

	type userOnly struct {
		User user `join:"user"`
	}
	shape := Nest(MaybeOne, "UserOnly", Field("user", One, 0))

	got, err := ReconstructInto[*userOnly](nil, shape)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ReconstructInto[*userOnly]([]Row{{user{4, "D"}}}, shape)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user{4, "D"}, got.User)
}

func ExampleReconstruct() {
	rows := []Row{
		{"alice", "first post"},
		{"alice", "second post"},
		{"bob", nil},
	}
	shape := Nest(AtLeastOne, "Author",
		Field("name", One, 0),
		Field("posts", AtLeastZero, 1))

	v, err := Reconstruct(rows, shape)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, item := range v.([]any) {
		o := item.(*Object)
		name, _ := o.Get("name")
		posts, _ := o.Get("posts")
		fmt.Println(name, posts)
	}
	// Output:
	// alice [first post second post]
	// bob []
}
