package vg

// imageRecord is the registry record backing an Handle returned by CreateImage:
// the backend texture plus enough bookkeeping to re-validate a handle and
// answer width/height queries without a round trip to the backend.
type imageRecord struct {
	tex   TextureHandle
	w, h  int
	kind  TextureKind
	flags ImageFlags
	valid bool
}

// imageRegistry owns every backend texture a Context created, whether from
// a user-supplied image or the FontSystem's atlas; DeleteImage frees the
// backend resource immediately and marks the slot invalid rather than
// compacting the slice, so outstanding Handles fail registry lookups
// (ErrInvalidHandle) instead of aliasing onto a different image; their
// Valid() still reports true, since it checks only the id.
type imageRegistry struct {
	backend Backend
	images  []imageRecord
	max     int
}

func newImageRegistry(backend Backend, max int) *imageRegistry {
	return &imageRegistry{backend: backend, images: make([]imageRecord, 0, max), max: max}
}

func (r *imageRegistry) create(kind TextureKind, w, h int, flags ImageFlags, data []byte) (Handle, error) {
	if len(r.images) >= r.max {
		return InvalidHandle, ErrResourceExhausted
	}
	tex := r.backend.CreateTexture(kind, w, h, flags, data)
	id := uint16(len(r.images))
	r.images = append(r.images, imageRecord{tex: tex, w: w, h: h, kind: kind, flags: flags, valid: true})
	return Handle{ID: id}, nil
}

func (r *imageRegistry) update(h Handle, x, y, w, hgt int, data []byte) error {
	img, ok := r.get(h)
	if !ok {
		return ErrInvalidHandle
	}
	r.backend.UpdateTexture(img.tex, x, y, w, hgt, data)
	return nil
}

func (r *imageRegistry) delete(h Handle) error {
	img, ok := r.get(h)
	if !ok {
		return ErrInvalidHandle
	}
	r.backend.DestroyTexture(img.tex)
	r.images[h.ID].valid = false
	return nil
}

func (r *imageRegistry) get(h Handle) (imageRecord, bool) {
	if !h.Valid() || int(h.ID) >= len(r.images) || !r.images[h.ID].valid {
		return imageRecord{}, false
	}
	return r.images[h.ID], true
}

func (r *imageRegistry) size(h Handle) (w, h2 int, ok bool) {
	img, ok := r.get(h)
	if !ok {
		return 0, 0, false
	}
	return img.w, img.h, true
}

func (r *imageRegistry) reset() {
	for i := range r.images {
		if r.images[i].valid {
			r.backend.DestroyTexture(r.images[i].tex)
		}
	}
	r.images = r.images[:0]
}
