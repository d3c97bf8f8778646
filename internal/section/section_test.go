package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guide = `Intro paragraph.

## Install

Run the installer.

### From source

Clone and build.

## Usage

Call it.

# Appendix

Notes.
`

func TestLevel(t *testing.T) {
	tests := []struct {
		heading string
		want    int
		wantErr bool
	}{
		{"# Title", 1, false},
		{"## Install", 2, false},
		{"#### CPU Constraints", 4, false},
		{"Install", 0, true},
		{"##Install", 0, true},
		{" ## Install", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			got, err := Level(tt.heading)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedHeading)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		heading   string
		want      string
		wantFound bool
	}{
		{
			name:      "stops at next heading of same level",
			source:    "## A\ntext1\n## B\ntext2",
			heading:   "## A",
			want:      "text1\n",
			wantFound: true,
		},
		{
			name:      "stops at shallower heading",
			source:    "## B\nintro\n### A\ndeep\n## C\nrest",
			heading:   "### A",
			want:      "deep\n",
			wantFound: true,
		},
		{
			name:      "keeps deeper headings in the body",
			source:    guide,
			heading:   "## Install",
			want:      "\nRun the installer.\n\n### From source\n\nClone and build.\n\n",
			wantFound: true,
		},
		{
			name:      "level one headings never end a section",
			source:    guide,
			heading:   "## Usage",
			want:      "\nCall it.\n\n# Appendix\n\nNotes.\n",
			wantFound: true,
		},
		{
			name:      "level one section runs to end of document",
			source:    "# A\none\n## B\ntwo\n",
			heading:   "# A",
			want:      "one\n## B\ntwo\n",
			wantFound: true,
		},
		{
			name:      "last section runs to end of document",
			source:    "## A\none\n## B\ntwo\n",
			heading:   "## B",
			want:      "two\n",
			wantFound: true,
		},
		{
			name:      "heading on last line yields empty body",
			source:    "## A\none\n## B",
			heading:   "## B",
			want:      "",
			wantFound: true,
		},
		{
			name:      "case insensitive",
			source:    "## Install\nsteps\n## Usage\n",
			heading:   "## INSTALL",
			want:      "steps\n",
			wantFound: true,
		},
		{
			name:      "surrounding whitespace in reference is ignored",
			source:    "## Install\nsteps\n## Usage\n",
			heading:   "## Install  ",
			want:      "steps\n",
			wantFound: true,
		},
		{
			name:      "first occurrence wins",
			source:    "## A\nfirst\n## A\nsecond\n",
			heading:   "## A",
			want:      "first\n",
			wantFound: true,
		},
		{
			name:      "regex metacharacters are literal",
			source:    "## C++ (beta)\nyes\n## Next\n",
			heading:   "## C++ (beta)",
			want:      "yes\n",
			wantFound: true,
		},
		{
			name:      "heading must start the line",
			source:    "text ## A\nbody\n",
			heading:   "## A",
			wantFound: false,
		},
		{
			name:      "missing heading",
			source:    guide,
			heading:   "## Missing",
			wantFound: false,
		},
		{
			name:      "deeper heading with same text is not a match",
			source:    "### A\nbody\n",
			heading:   "## A",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := Read([]byte(tt.source), tt.heading)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)

			if tt.wantFound {
				assert.Equal(t, tt.want, string(got))
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestReadMalformedHeading(t *testing.T) {
	got, found, err := Read([]byte(guide), "Install")
	require.ErrorIs(t, err, ErrMalformedHeading)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestExtract(t *testing.T) {
	got, found, err := Extract("## A\ntext1\n## B\ntext2", "## A")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "text1\n", got)

	got, found, err = Extract("## A\ntext1\n", "## Z")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)
}

func TestHeadings(t *testing.T) {
	source := []byte("Intro\n\n## Install\n\n```sh\n# not a heading\n```\n\nSetext\n------\n\n### From  source ###\n")

	got := Headings(source)
	require.Len(t, got, 2)

	assert.Equal(t, Heading{Level: 2, Text: "Install", Line: 3}, got[0])
	assert.Equal(t, "## Install", got[0].Reference())

	assert.Equal(t, 3, got[1].Level)
	assert.Equal(t, 12, got[1].Line)
}

func TestReference(t *testing.T) {
	assert.Equal(t, "### Usage", Reference(3, " Usage "))
	assert.Equal(t, "# Usage", Reference(0, "Usage"))
}
