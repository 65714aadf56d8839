package login

import (
	"context"
	"testing"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/api/apitest"
	"github.com/Comcast/conduit/form"
	loginform "github.com/Comcast/conduit/form/login"
	"github.com/Comcast/conduit/orders"
	"github.com/Comcast/conduit/page"
	"github.com/Comcast/conduit/route"
	"github.com/Comcast/conduit/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(m *Model, r *orders.Recorder[Msg], email, password string) {
	m.Update(FieldChanged{Field: loginform.Field{Kind: loginform.Email, Val: email}}, r)
	m.Update(FieldChanged{Field: loginform.Field{Kind: loginform.Password, Val: password}}, r)
}

func TestBlankSubmit(t *testing.T) {
	var r orders.Recorder[Msg]
	m := Init(session.Guest(), &r)
	fill(m, &r, "  ", "")
	m.Update(Submitted{}, &r)

	assert.Empty(t, r.Cmds)
	require.Len(t, m.Problems(), 2)
	assert.Equal(t, "email can't be blank", m.Problems()[0].Message)
	assert.Equal(t, "password can't be blank", m.Problems()[1].Message)
}

func TestLogin(t *testing.T) {
	var (
		r    orders.Recorder[Msg]
		got  []form.Entry
		fake = &apitest.Fake{
			LoginF: func(es []form.Entry) (*session.Viewer, error) {
				got = es
				return &session.Viewer{Token: "t", Username: "homer"}, nil
			},
		}
	)
	m := Init(session.Guest(), &r)
	fill(m, &r, " homer@example.com ", "short")
	m.Update(Submitted{}, &r)
	assert.Nil(t, m.Problems())

	for _, msg := range r.Run(context.Background(), fake) {
		m.Update(msg, &r)
	}
	assert.Equal(t, []form.Entry{
		{Key: "email", Value: "homer@example.com"},
		{Key: "password", Value: "short"},
	}, got)
	require.Len(t, r.Globals, 1)
	sc, is := r.Globals[0].(orders.SessionChanged)
	require.True(t, is)
	assert.True(t, sc.Session.IsViewer("homer"))

	// The application hands the change back through the sink.
	m.Sink(sc, &r)
	assert.False(t, m.Session().IsGuest())
	assert.Equal(t, []string{"/"}, r.URLs)
	assert.Equal(t, orders.RoutePushed{Route: route.ToHome()}, r.Globals[1])
}

func TestServerErrors(t *testing.T) {
	var r orders.Recorder[Msg]
	fake := &apitest.Fake{
		LoginF: func([]form.Entry) (*session.Viewer, error) {
			return nil, api.NewErrors(api.FieldErrors(map[string][]string{"email or password": {"is invalid"}})...)
		},
	}
	m := Init(session.Guest(), &r)
	fill(m, &r, "a@b.c", "12345678")
	m.Update(Submitted{}, &r)
	for _, msg := range r.Run(context.Background(), fake) {
		m.Update(msg, &r)
	}
	assert.Equal(t, []form.Problem{form.NewServerError("email or password is invalid")}, m.Problems())
	assert.Empty(t, r.Globals)
}

func TestSnapshotMasksPassword(t *testing.T) {
	var r orders.Recorder[Msg]
	m := Init(session.Guest(), &r)
	fill(m, &r, "a@b.c", "secret")
	s := m.Snapshot().(Snapshot)
	assert.Equal(t, []page.FieldJSON{
		{Key: "email", Value: "a@b.c"},
		{Key: "password", Value: "******"},
	}, s.Fields)
	assert.Equal(t, "Login - Conduit", m.Title())
}
