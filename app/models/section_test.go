package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionContentHasContent(t *testing.T) {
	assert.False(t, (&SectionContent{}).HasContent())
	assert.False(t, (&SectionContent{Title: "   "}).HasContent())
	assert.False(t, (&SectionContent{Subtitle: "subtitle only"}).HasContent())

	assert.True(t, (&SectionContent{Title: "Editorial"}).HasContent())
	assert.True(t, (&SectionContent{Summary: "A short summary"}).HasContent())
	assert.True(t, (&SectionContent{Body: "Full body text"}).HasContent())
}

func TestSectionContentStatusFromContent(t *testing.T) {
	assert.Equal(t, SectionStatusEmpty, (&SectionContent{}).StatusFromContent())
	assert.Equal(t, SectionStatusDraft, (&SectionContent{Body: "text"}).StatusFromContent())
}

func TestIsValidSectionType(t *testing.T) {
	for _, st := range SectionTypes {
		assert.True(t, IsValidSectionType(st), st)
	}
	assert.False(t, IsValidSectionType("advert"))
	assert.False(t, IsValidSectionType(""))
}

func TestReadyForPublish(t *testing.T) {
	assert.True(t, ReadyForPublish(nil))
	assert.True(t, ReadyForPublish([]Section{
		{Status: SectionStatusApproved},
		{Status: SectionStatusPublished},
	}))
	assert.False(t, ReadyForPublish([]Section{
		{Status: SectionStatusApproved},
		{Status: SectionStatusDraft},
	}))
	assert.False(t, ReadyForPublish([]Section{
		{Status: SectionStatusInReview},
	}))
	assert.False(t, ReadyForPublish([]Section{
		{Status: SectionStatusEmpty},
	}))
}
