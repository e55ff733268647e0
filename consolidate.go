package palimpsest

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"github.com/npillmayer/palimpsest/patch"
	"github.com/npillmayer/palimpsest/text"
)

// consolidateLayers walks the stack top-down, collecting runs of mutable
// layers (unfrozen, not pinned by a layer above) and squashing each run into
// its topmost member. Frozen layers are never deleted or re-parented.
func (b *Buffer) consolidateLayers() {
	l := b.topLayer
	var mutableLayers []*layer
	neededByLayerAbove := false

	for l != nil {
		if neededByLayerAbove || l.snapshotCount > 0 {
			b.squashLayers(mutableLayers)
			mutableLayers = nil
			neededByLayerAbove = true
		} else {
			if l == b.baseLayer {
				b.squashLayers(mutableLayers)
				mutableLayers = nil
			}

			if l.text != nil {
				l.usesPatch = false
			}
			mutableLayers = append(mutableLayers, l)
		}

		if !l.usesPatch {
			neededByLayerAbove = false
		}
		l = l.previous
	}

	b.squashLayers(mutableLayers)
}

// squashLayers folds a top-down run of at least two layers into layers[0]:
// patches above the highest materialized text are applied to that text, the
// run's patches are composed bottom-up into one, and the surviving layer is
// re-parented onto the run's original previous layer.
func (b *Buffer) squashLayers(layers []*layer) {
	if len(layers) < 2 {
		return
	}

	// Find the highest layer that has already computed its text.
	var squashedText *text.Text
	textIndex := len(layers)
	for i, l := range layers {
		if l.text != nil {
			squashedText = l.text
			textIndex = i
			break
		}
	}

	// Incorporate into that text the patches from all the layers above.
	if squashedText != nil {
		for i := textIndex - 1; i >= 0; i-- {
			for _, change := range layers[i].patch.Changes() {
				squashedText.Splice(change.NewStart, change.OldExtent(), change.NewText)
			}
		}
	}

	// If there is another layer below the run, compose the run's patches
	// into one. Otherwise this becomes the new base layer and needs none.
	var combined *patch.Patch
	previousLayer := layers[len(layers)-1].previous
	if previousLayer != nil {
		combined = layers[len(layers)-1].patch
		for i := len(layers) - 2; i >= 0; i-- {
			combined.Combine(layers[i].patch)
		}
	} else {
		assert(squashedText != nil, "squashed base run without materialized text")
		combined = patch.New()
	}

	layers[0].previous = previousLayer
	layers[0].text = squashedText
	layers[0].patch = combined
}
