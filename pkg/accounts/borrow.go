package accounts

// Ref is a borrow token. The borrowed value stays valid until Release.
type Ref[T any] struct {
	value     T
	flag      *uint8
	exclusive bool
}

func (r *Ref[T]) Value() T {
	return r.value
}

// Release returns the borrow. Releasing twice is a no-op.
func (r *Ref[T]) Release() {
	if r.flag == nil {
		return
	}
	if r.exclusive {
		*r.flag = borrowFree
	} else {
		*r.flag--
	}
	r.flag = nil
}

func checkShared(flag uint8, errExclusive, errShared error) error {
	switch {
	case flag == borrowExclusive:
		return errExclusive
	case flag >= borrowMaxShared:
		return errShared
	}
	return nil
}

func checkExclusive(flag uint8, errExclusive, errShared error) error {
	switch flag {
	case borrowFree:
		return nil
	case borrowExclusive:
		return errExclusive
	}
	return errShared
}

func (a *AccountInfo) CheckBorrowData() error {
	return checkShared(a.state.dataBorrow, ErrDataBorrowExclusive, ErrDataBorrowShared)
}

func (a *AccountInfo) CheckBorrowMutData() error {
	return checkExclusive(a.state.dataBorrow, ErrDataBorrowExclusive, ErrDataBorrowShared)
}

func (a *AccountInfo) CheckBorrowLamports() error {
	return checkShared(a.state.lamportsBorrow, ErrLamportsBorrowExclusive, ErrLamportsBorrowShared)
}

func (a *AccountInfo) CheckBorrowMutLamports() error {
	return checkExclusive(a.state.lamportsBorrow, ErrLamportsBorrowExclusive, ErrLamportsBorrowShared)
}

func (a *AccountInfo) TryBorrowData() (Ref[[]byte], error) {
	if err := a.CheckBorrowData(); err != nil {
		return Ref[[]byte]{}, err
	}
	a.state.dataBorrow++
	return Ref[[]byte]{value: a.state.acct.Data, flag: &a.state.dataBorrow}, nil
}

func (a *AccountInfo) TryBorrowMutData() (Ref[[]byte], error) {
	if err := a.CheckBorrowMutData(); err != nil {
		return Ref[[]byte]{}, err
	}
	a.state.dataBorrow = borrowExclusive
	return Ref[[]byte]{value: a.state.acct.Data, flag: &a.state.dataBorrow, exclusive: true}, nil
}

func (a *AccountInfo) TryBorrowLamports() (Ref[*uint64], error) {
	if err := a.CheckBorrowLamports(); err != nil {
		return Ref[*uint64]{}, err
	}
	a.state.lamportsBorrow++
	return Ref[*uint64]{value: &a.state.acct.Lamports, flag: &a.state.lamportsBorrow}, nil
}

func (a *AccountInfo) TryBorrowMutLamports() (Ref[*uint64], error) {
	if err := a.CheckBorrowMutLamports(); err != nil {
		return Ref[*uint64]{}, err
	}
	a.state.lamportsBorrow = borrowExclusive
	return Ref[*uint64]{value: &a.state.acct.Lamports, flag: &a.state.lamportsBorrow, exclusive: true}, nil
}
