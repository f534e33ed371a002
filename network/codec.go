package network

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// 2字节消息ID + 4字节数据长度
const headerSize = 6

var ErrPayloadTooLarge = errors.New("payload exceeds 4 GiB")

type Packet struct {
	MsgID  uint16
	Data   []byte
	Length uint32
}

// EncodePacket 封包: 2字节消息ID + 4字节数据长度 + 数据
func EncodePacket(msgID uint16, data []byte) ([]byte, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, ErrPayloadTooLarge
	}
	packet := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint32(packet[2:6], uint32(len(data)))
	copy(packet[headerSize:], data)
	return packet, nil
}

// DecodePacket 解包, 多余的尾部字节被忽略
func DecodePacket(raw []byte) (*Packet, error) {
	if len(raw) < headerSize {
		return nil, io.ErrShortBuffer
	}

	msgID := binary.BigEndian.Uint16(raw[0:2])
	length := binary.BigEndian.Uint32(raw[2:6])

	if uint64(len(raw)) < uint64(headerSize)+uint64(length) {
		return nil, io.ErrShortBuffer
	}

	return &Packet{
		MsgID:  msgID,
		Length: length,
		Data:   raw[headerSize : headerSize+int(length)],
	}, nil
}
