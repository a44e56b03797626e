// Package storagetest provides a behavioural test suite that every
// storage.GraphStore implementation must pass.
//
// Backends call Run from their own tests with a factory that returns an
// empty, set-up store:
//
//	func TestStoreContract(t *testing.T) {
//	    storagetest.Run(t, func(t *testing.T) storage.GraphStore {
//	        store, err := badger.NewMemoryStore()
//	        require.NoError(t, err)
//	        return store
//	    })
//	}
package storagetest
