package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/talentsift/pkg/types"
)

func testOntology() *Ontology {
	return &Ontology{
		Skills:            []string{"Python", "Kubernetes"},
		SkillVariations:   map[string]string{"k8s": "Kubernetes"},
		Companies:         []string{"Google"},
		CompanyVariations: map[string]string{"google llc": "Google"},
	}
}

func TestResolveExactCanonicalName(t *testing.T) {
	r := New(testOntology())

	res, err := r.Resolve("Python", types.EntitySkill)
	require.NoError(t, err)
	assert.Equal(t, "Python", res.Entity.CanonicalName)
	assert.Equal(t, 1.0, res.Confidence)
	assert.True(t, res.Known)
	assert.False(t, res.Created)
}

func TestResolveSeededAlias(t *testing.T) {
	r := New(testOntology())

	res, err := r.Resolve("k8s", types.EntitySkill)
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes", res.Entity.CanonicalName)

	canonical, ok := r.Lookup("kubernetes")
	require.True(t, ok)
	assert.Same(t, canonical, res.Entity)
}

func TestResolveFuzzyMatchRecordsAlias(t *testing.T) {
	r := New(testOntology())

	res, err := r.Resolve("Pythn", types.EntitySkill)
	require.NoError(t, err)
	assert.Equal(t, "Python", res.Entity.CanonicalName)
	assert.True(t, res.Known)
	assert.GreaterOrEqual(t, res.Confidence, DefaultThreshold)
	assert.True(t, res.Entity.HasAlias("Pythn"))

	// A second sighting of the same misspelling is now an exact alias hit.
	again, err := r.Resolve("Pythn", types.EntitySkill)
	require.NoError(t, err)
	assert.Equal(t, 1.0, again.Confidence)
	assert.Same(t, res.Entity, again.Entity)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := New(testOntology())

	first, err := r.Resolve("pythn", types.EntitySkill)
	require.NoError(t, err)

	second, err := r.Resolve(first.Entity.CanonicalName, types.EntitySkill)
	require.NoError(t, err)
	assert.Same(t, first.Entity, second.Entity)
	assert.Equal(t, first.Entity.ID, second.Entity.ID)
}

func TestResolveAmbiguityBandLeavesUnresolved(t *testing.T) {
	r := New(testOntology(), WithThreshold(0.99), WithAmbiguityBand(0.2))

	res, err := r.Resolve("Pythons", types.EntitySkill)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrResolutionAmbiguous)
	assert.Nil(t, res)

	// The near-miss must not have been recorded as an alias.
	_, ok := r.Lookup("Pythons")
	assert.False(t, ok)
}

func TestResolveCreatesNewCanonicalEntry(t *testing.T) {
	r := New(testOntology())

	res, err := r.Resolve("flurbotron", types.EntitySkill)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.Known)
	assert.Equal(t, 0.5, res.Confidence)
	assert.Equal(t, "Flurbotron", res.Entity.CanonicalName)

	again, err := r.Resolve("Flurbotron", types.EntitySkill)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.True(t, again.Known)
	assert.Equal(t, res.Entity.ID, again.Entity.ID)
}

func TestResolveExistingFuzzyMatchesWithoutCreating(t *testing.T) {
	r := New(testOntology())

	res, err := r.ResolveExisting("Pythn", types.EntitySkill)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Python", res.Entity.CanonicalName)
	assert.True(t, res.Entity.HasAlias("Pythn"))
}

func TestResolveExistingUnknownFormReturnsNil(t *testing.T) {
	r := New(testOntology())

	res, err := r.ResolveExisting("flurbotron", types.EntitySkill)
	require.NoError(t, err)
	assert.Nil(t, res)

	// Unlike Resolve, no canonical entry was created.
	_, ok := r.Lookup("flurbotron")
	assert.False(t, ok)
}

func TestResolveExistingAmbiguityBand(t *testing.T) {
	r := New(testOntology(), WithThreshold(0.99), WithAmbiguityBand(0.2))

	res, err := r.ResolveExisting("Pythons", types.EntitySkill)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrResolutionAmbiguous)
	assert.Nil(t, res)
}

func TestResolveTitleCasesNewCompanies(t *testing.T) {
	r := New(testOntology())

	res, err := r.Resolve("acme widget co", types.EntityCompany)
	require.NoError(t, err)
	assert.Equal(t, "Acme Widget Co", res.Entity.CanonicalName)
	assert.Equal(t, types.EntityCompany, res.Entity.Type)
}

func TestResolveRejectsEmptySurfaceForm(t *testing.T) {
	r := New(testOntology())
	_, err := r.Resolve("   ", types.EntitySkill)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "node.js", Normalize(" Node.JS  "))
	assert.Equal(t, "c++", Normalize("C++"))
	assert.Equal(t, "go golang", Normalize("Go / Golang"))
}

func TestGetByID(t *testing.T) {
	r := New(testOntology())
	seeded, ok := r.Lookup("python")
	require.True(t, ok)

	got, ok := r.Get(seeded.ID)
	require.True(t, ok)
	assert.Same(t, seeded, got)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
