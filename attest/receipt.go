package attest

import (
	"fmt"
	"os"

	"github.com/gogo/protobuf/proto"
)

// Receipt is the output of the prover. Journal is public, Seal is the
// serialized groth16 proof and ProgramID binds both to a verifying key.
// It is encoded as a protobuf message:
//
//	message Receipt {
//	  bytes journal = 1;
//	  bytes seal = 2;
//	  bytes program_id = 3;
//	}
type Receipt struct {
	Journal   []byte `protobuf:"bytes,1,opt,name=journal,proto3" json:"journal,omitempty"`
	Seal      []byte `protobuf:"bytes,2,opt,name=seal,proto3" json:"seal,omitempty"`
	ProgramID []byte `protobuf:"bytes,3,opt,name=program_id,json=programId,proto3" json:"program_id,omitempty"`
}

func (m *Receipt) Reset()         { *m = Receipt{} }
func (m *Receipt) String() string { return proto.CompactTextString(m) }
func (*Receipt) ProtoMessage()    {}

func (m *Receipt) GetJournal() []byte {
	if m != nil {
		return m.Journal
	}
	return nil
}

func (m *Receipt) GetSeal() []byte {
	if m != nil {
		return m.Seal
	}
	return nil
}

func (m *Receipt) GetProgramID() []byte {
	if m != nil {
		return m.ProgramID
	}
	return nil
}

// DecodeJournal validates the journal and returns it as a string.
func (m *Receipt) DecodeJournal() (string, error) {
	in, err := DecodeJournal(m.GetJournal())
	if err != nil {
		return "", err
	}
	return in.Journal(), nil
}

const wireBytes = 2

// Marshal encodes the receipt in protobuf wire format. Empty fields are
// omitted as in proto3. proto.Marshal calls back into this method, so it
// must not delegate to it.
func (m *Receipt) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, len(m.GetJournal())+len(m.GetSeal())+len(m.GetProgramID())+16))
	for _, f := range []struct {
		tag  uint64
		data []byte
	}{
		{1, m.GetJournal()},
		{2, m.GetSeal()},
		{3, m.GetProgramID()},
	} {
		if len(f.data) == 0 {
			continue
		}
		if err := buf.EncodeVarint(f.tag<<3 | wireBytes); err != nil {
			return nil, err
		}
		if err := buf.EncodeRawBytes(f.data); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalReceipt is the inverse of Receipt.Marshal.
func UnmarshalReceipt(data []byte) (*Receipt, error) {
	var r Receipt
	if err := proto.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("could not decode receipt: %w", err)
	}
	return &r, nil
}

// WriteReceiptFile stores r at path.
func WriteReceiptFile(path string, r *Receipt) error {
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("could not encode receipt: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write receipt: %w", err)
	}
	return nil
}

// ReadReceiptFile loads a receipt written by WriteReceiptFile.
func ReadReceiptFile(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read receipt: %w", err)
	}
	return UnmarshalReceipt(data)
}
