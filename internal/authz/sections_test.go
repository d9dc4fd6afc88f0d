package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsMatchReadGrants(t *testing.T) {
	table := Default()

	// A section appears exactly when the role holds a read grant on the
	// backing resource. Derived view, no second table to drift.
	for _, role := range Roles() {
		sections, err := table.Sections(role)
		require.NoError(t, err)

		var want []Section
		for _, resource := range Resources() {
			ok, err := table.CanRead(role, resource)
			require.NoError(t, err)
			if ok {
				want = append(want, sectionByResource[resource])
			}
		}
		assert.Equal(t, want, sections, "role=%s", role)
	}
}

func TestSectionsForDataEntry(t *testing.T) {
	sections, err := Default().Sections(RoleDataEntry)
	require.NoError(t, err)
	assert.Equal(t, []Section{SectionQuotations, SectionItems, SectionReports}, sections)
}

func TestSectionsForManagerCoverEverything(t *testing.T) {
	sections, err := Default().Sections(RoleManager)
	require.NoError(t, err)
	assert.Len(t, sections, len(Resources()))
	assert.Contains(t, sections, SectionSettings)
}

func TestSectionsUnknownRole(t *testing.T) {
	_, err := Default().Sections(Role("auditor"))
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestEveryResourceHasASection(t *testing.T) {
	for _, resource := range Resources() {
		_, ok := sectionByResource[resource]
		assert.True(t, ok, "resource %q has no section mapping", resource)
	}
}
