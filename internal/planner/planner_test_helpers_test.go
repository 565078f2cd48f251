package planner

import (
	"context"
	"encoding/json"
)

// fakeTransport is an in-memory stand-in for Transport: Get replays a canned
// body per @odata.id (deep-copied via JSON so callers can't mutate the
// fixture), while Post/Patch/Delete record every call and return
// caller-scripted results.
type fakeTransport struct {
	bodies map[string]interface{}

	posts   []postCall
	patches []patchCall
	deletes []deleteCall

	postTaskLocation   string
	deleteTaskLocation map[string]string // odataID -> Location to return from Delete
	patchErr           error
	deleteErr          error
}

type postCall struct {
	odataID string
	body    interface{}
}

type patchCall struct {
	odataID string
	etag    string
	body    interface{}
}

type deleteCall struct {
	odataID string
	etag    string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{bodies: map[string]interface{}{}}
}

func (f *fakeTransport) withBody(odataID string, body interface{}) *fakeTransport {
	f.bodies[odataID] = body
	return f
}

func (f *fakeTransport) Get(_ context.Context, odataID string, out interface{}) (string, error) {
	body, ok := f.bodies[odataID]
	if !ok {
		return "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return "", err
	}
	return `"etag-` + odataID + `"`, nil
}

func (f *fakeTransport) Post(_ context.Context, odataID string, body, _ interface{}) (string, error) {
	f.posts = append(f.posts, postCall{odataID: odataID, body: body})
	return f.postTaskLocation, nil
}

func (f *fakeTransport) Patch(_ context.Context, odataID, etag string, body interface{}) error {
	f.patches = append(f.patches, patchCall{odataID: odataID, etag: etag, body: body})
	return f.patchErr
}

func (f *fakeTransport) Delete(_ context.Context, odataID, etag string) (string, error) {
	f.deletes = append(f.deletes, deleteCall{odataID: odataID, etag: etag})
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	return f.deleteTaskLocation[odataID], nil
}
